package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Device is a catalog entry describing a model of hardware the floor
// refurbishes. SLAHours drives the deadline stamped on new jobs;
// TestConfig carries the diagnostic tool profile as opaque JSON.
type Device struct {
	ID          string          `json:"id"                     db:"id"`
	Brand       string          `json:"brand"                  db:"brand"`
	DeviceType  string          `json:"device_type"            db:"device_type"`
	Model       string          `json:"model"                  db:"model"`
	ModelNumber *string         `json:"model_number,omitempty" db:"model_number"`
	SLAHours    *int            `json:"sla_hours,omitempty"    db:"sla_hours"`
	TestConfig  json.RawMessage `json:"test_config,omitempty"  db:"test_config"`
	CreatedAt   time.Time       `json:"created_at"             db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"             db:"updated_at"`
}

// CreateDeviceRequest represents a request to add a device model to the catalog.
type CreateDeviceRequest struct {
	Brand       string          `json:"brand"`
	DeviceType  string          `json:"device_type"`
	Model       string          `json:"model"`
	ModelNumber *string         `json:"model_number,omitempty"`
	SLAHours    *int            `json:"sla_hours,omitempty"`
	TestConfig  json.RawMessage `json:"test_config,omitempty"`
}

// Validate validates the CreateDeviceRequest fields.
func (r *CreateDeviceRequest) Validate() error {
	if strings.TrimSpace(r.Brand) == "" {
		return errors.New("brand is required")
	}
	if strings.TrimSpace(r.Model) == "" {
		return errors.New("model is required")
	}
	if r.SLAHours != nil && *r.SLAHours <= 0 {
		return errors.New("sla hours must be positive")
	}
	return nil
}
