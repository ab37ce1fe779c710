// Package testutil provides testing utilities and helpers for the veriqko refurbishment pipeline.
package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/lowrester/Veriqko/internal/domain/model"
)

// JobRequestBuilder provides a fluent interface for building CreateJobRequest objects for testing.
type JobRequestBuilder struct {
	req *model.CreateJobRequest
}

// NewJobRequest creates a new JobRequestBuilder with sensible defaults.
func NewJobRequest() *JobRequestBuilder {
	return &JobRequestBuilder{
		req: &model.CreateJobRequest{
			SerialNumber: "SN-TEST-0001",
		},
	}
}

// WithSerialNumber sets the unit serial number.
func (b *JobRequestBuilder) WithSerialNumber(serial string) *JobRequestBuilder {
	b.req.SerialNumber = serial
	return b
}

// WithDeviceID sets the device profile the unit is registered against.
func (b *JobRequestBuilder) WithDeviceID(deviceID string) *JobRequestBuilder {
	b.req.DeviceID = deviceID
	return b
}

// WithBatchID groups the unit into an intake lot.
func (b *JobRequestBuilder) WithBatchID(batchID string) *JobRequestBuilder {
	b.req.BatchID = &batchID
	return b
}

// WithTechnicianID pre-assigns a technician at intake.
func (b *JobRequestBuilder) WithTechnicianID(technicianID string) *JobRequestBuilder {
	b.req.TechnicianID = &technicianID
	return b
}

// Build returns the constructed CreateJobRequest.
func (b *JobRequestBuilder) Build() *model.CreateJobRequest {
	return b.req
}

// DeviceRequestBuilder provides a fluent interface for building CreateDeviceRequest objects for testing.
type DeviceRequestBuilder struct {
	req *model.CreateDeviceRequest
}

// NewDeviceRequest creates a new DeviceRequestBuilder with sensible defaults.
func NewDeviceRequest() *DeviceRequestBuilder {
	return &DeviceRequestBuilder{
		req: &model.CreateDeviceRequest{
			Brand:      "Apple",
			DeviceType: "phone",
			Model:      "iPhone 13",
		},
	}
}

// WithBrand sets the device brand.
func (b *DeviceRequestBuilder) WithBrand(brand string) *DeviceRequestBuilder {
	b.req.Brand = brand
	return b
}

// WithDeviceType sets the device type.
func (b *DeviceRequestBuilder) WithDeviceType(deviceType string) *DeviceRequestBuilder {
	b.req.DeviceType = deviceType
	return b
}

// WithModel sets the device model name.
func (b *DeviceRequestBuilder) WithModel(modelName string) *DeviceRequestBuilder {
	b.req.Model = modelName
	return b
}

// WithModelNumber sets the manufacturer model number.
func (b *DeviceRequestBuilder) WithModelNumber(modelNumber string) *DeviceRequestBuilder {
	b.req.ModelNumber = &modelNumber
	return b
}

// WithSLAHours sets the SLA budget in hours.
func (b *DeviceRequestBuilder) WithSLAHours(hours int) *DeviceRequestBuilder {
	b.req.SLAHours = &hours
	return b
}

// WithTestConfig sets the diagnostic test configuration.
func (b *DeviceRequestBuilder) WithTestConfig(cfg json.RawMessage) *DeviceRequestBuilder {
	b.req.TestConfig = cfg
	return b
}

// Build returns the constructed CreateDeviceRequest.
func (b *DeviceRequestBuilder) Build() *model.CreateDeviceRequest {
	return b.req
}

// StationRequestBuilder provides a fluent interface for building CreateStationRequest objects for testing.
type StationRequestBuilder struct {
	req *model.CreateStationRequest
}

// NewStationRequest creates a new StationRequestBuilder with sensible defaults.
func NewStationRequest() *StationRequestBuilder {
	return &StationRequestBuilder{
		req: &model.CreateStationRequest{
			Name: "Bench 1",
			Type: model.StationTypeBench,
		},
	}
}

// WithName sets the station name.
func (b *StationRequestBuilder) WithName(name string) *StationRequestBuilder {
	b.req.Name = name
	return b
}

// WithType sets the station type.
func (b *StationRequestBuilder) WithType(stationType model.StationType) *StationRequestBuilder {
	b.req.Type = stationType
	return b
}

// Build returns the constructed CreateStationRequest.
func (b *StationRequestBuilder) Build() *model.CreateStationRequest {
	return b.req
}

// Common test request presets

// PhoneDeviceRequest creates a phone device profile with a 48 hour SLA budget.
func PhoneDeviceRequest() *model.CreateDeviceRequest {
	return NewDeviceRequest().
		WithBrand("Apple").
		WithDeviceType("phone").
		WithModel("iPhone 13").
		WithModelNumber("A2482").
		WithSLAHours(48).
		Build()
}

// LaptopDeviceRequest creates a laptop device profile with a 96 hour SLA budget.
func LaptopDeviceRequest() *model.CreateDeviceRequest {
	return NewDeviceRequest().
		WithBrand("Lenovo").
		WithDeviceType("laptop").
		WithModel("ThinkPad T14 Gen 3").
		WithSLAHours(96).
		Build()
}

// AccessoryDeviceRequest creates an accessory profile with no SLA budget.
// Jobs registered against it never get a deadline.
func AccessoryDeviceRequest() *model.CreateDeviceRequest {
	return NewDeviceRequest().
		WithBrand("Acme").
		WithDeviceType("accessory").
		WithModel("Charging Dock").
		Build()
}

// BenchStationRequest creates a bench station request with the given name.
func BenchStationRequest(name string) *model.CreateStationRequest {
	return NewStationRequest().WithName(name).WithType(model.StationTypeBench).Build()
}

// QueueStationRequest creates a queue station request with the given name.
func QueueStationRequest(name string) *model.CreateStationRequest {
	return NewStationRequest().WithName(name).WithType(model.StationTypeQueue).Build()
}

// SerialNumber returns a deterministic serial for the nth test unit.
func SerialNumber(n int) string {
	return fmt.Sprintf("SN-TEST-%04d", n)
}
