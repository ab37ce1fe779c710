package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StationType classifies a physical or virtual work position on the floor.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type StationType string

const (
	// StationTypeBench is a staffed workbench.
	StationTypeBench StationType = "bench"
	// StationTypeQueue is a holding queue with no assigned technician.
	StationTypeQueue StationType = "queue"
)

// UnmarshalText implements encoding.TextUnmarshaler for StationType.
func (t *StationType) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	st := StationType(v)
	if st.Valid() {
		*t = st
		return nil
	}
	return fmt.Errorf("invalid StationType: %q", v)
}

// Valid returns true if the StationType is valid.
func (t StationType) Valid() bool {
	return t == StationTypeBench || t == StationTypeQueue
}

// Station represents a work position jobs can be assigned to.
type Station struct {
	ID        string      `json:"id"         db:"id"`
	Name      string      `json:"name"       db:"name"`
	Type      StationType `json:"type"       db:"type"`
	IsActive  bool        `json:"is_active"  db:"is_active"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateStationRequest represents a request to add a station to the floor.
type CreateStationRequest struct {
	Name string      `json:"name"`
	Type StationType `json:"type"`
}

// Validate validates the CreateStationRequest fields.
func (r *CreateStationRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("station name is required")
	}
	if !r.Type.Valid() {
		return errors.New("invalid station type")
	}
	return nil
}

// Technician represents a floor worker jobs can be assigned to.
type Technician struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	IsActive  bool      `json:"is_active"  db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
