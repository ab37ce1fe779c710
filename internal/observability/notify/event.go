package notify

import (
	"context"
	"time"
)

// Alert levels recognised by downstream sinks.
const (
	LevelWarning  = "WARNING"
	LevelBreached = "BREACHED"
)

// SLAAlertPayload captures the canonical data we emit for deadline alerts.
type SLAAlertPayload struct {
	JobID        string
	SerialNumber string
	Status       string
	Level        string
	Recipient    string
	DueAt        time.Time
	OccurredAt   time.Time
}

// Sink describes a destination capable of consuming deadline alerts.
type Sink interface {
	SendSLAAlert(ctx context.Context, payload SLAAlertPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload SLAAlertPayload) error

// SendSLAAlert implements the Sink interface.
func (f SinkFunc) SendSLAAlert(ctx context.Context, payload SLAAlertPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
