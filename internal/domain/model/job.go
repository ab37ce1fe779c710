// Package model defines the core data types and structures used throughout the veriqko refurbishment system.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// JobStatus represents the refurbishment phase a job is currently in.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobStatus string

const (
	// JobStatusIntake indicates a unit has been received and logged.
	JobStatusIntake JobStatus = "INTAKE"
	// JobStatusReset indicates the unit is being wiped and restored.
	JobStatusReset JobStatus = "RESET"
	// JobStatusFunctional indicates the unit is under functional testing.
	JobStatusFunctional JobStatus = "FUNCTIONAL"
	// JobStatusQC indicates the unit is in final quality control.
	JobStatusQC JobStatus = "QC"
	// JobStatusCompleted indicates the unit passed all phases.
	JobStatusCompleted JobStatus = "COMPLETED"
	// JobStatusFailed indicates the unit was pulled from the pipeline.
	JobStatusFailed JobStatus = "FAILED"
)

// UnmarshalText implements encoding.TextUnmarshaler for JobStatus to allow request parsing.
func (s *JobStatus) UnmarshalText(text []byte) error {
	v := strings.ToUpper(strings.TrimSpace(string(text)))
	js := JobStatus(v)
	if js.Valid() {
		*s = js
		return nil
	}
	return fmt.Errorf("invalid JobStatus: %q", v)
}

// Valid returns true if the JobStatus is valid.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusIntake, JobStatusReset, JobStatusFunctional, JobStatusQC,
		JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// Terminal returns true if the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// forwardEdges holds the single legal forward step out of each active phase.
// FAILED is reachable from any active phase and is handled separately.
var forwardEdges = map[JobStatus]JobStatus{
	JobStatusIntake:     JobStatusReset,
	JobStatusReset:      JobStatusFunctional,
	JobStatusFunctional: JobStatusQC,
	JobStatusQC:         JobStatusCompleted,
}

// CanTransitionTo reports whether moving from s to next is a legal edge
// in the pipeline graph.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == JobStatusFailed {
		return true
	}
	return forwardEdges[s] == next
}

// PhaseCompletedBy returns the phase whose completion timestamp should be
// stamped when a job moves from its current status to next. Moving into
// FAILED completes no phase.
func PhaseCompletedBy(from, to JobStatus) (JobStatus, bool) {
	if to == JobStatusFailed {
		return "", false
	}
	if forwardEdges[from] == to {
		return from, true
	}
	return "", false
}

// PhaseStartedBy returns the phase whose start timestamp should be stamped
// when a job moves from its current status to next. Only forward moves
// into a tracked phase start one: INTAKE starts when the job is created,
// and the terminal states are not phases.
func PhaseStartedBy(from, to JobStatus) (JobStatus, bool) {
	if forwardEdges[from] != to || to == JobStatusCompleted {
		return "", false
	}
	return to, true
}

// Job represents a single device moving through the refurbishment pipeline.
type Job struct {
	ID                    string     `json:"id"                                db:"id"`
	SerialNumber          string     `json:"serial_number"                     db:"serial_number"`
	DeviceID              string     `json:"device_id"                         db:"device_id"`
	BatchID               *string    `json:"batch_id,omitempty"                db:"batch_id"`
	Status                JobStatus  `json:"status"                            db:"status"`
	StationID             *string    `json:"station_id,omitempty"              db:"station_id"`
	TechnicianID          *string    `json:"technician_id,omitempty"           db:"technician_id"`
	FailureReason         *string    `json:"failure_reason,omitempty"          db:"failure_reason"`
	SLADueAt              *time.Time `json:"sla_due_at,omitempty"              db:"sla_due_at"`
	SLAWarningNotifiedAt  *time.Time `json:"sla_warning_notified_at,omitempty" db:"sla_warning_notified_at"`
	SLABreachNotifiedAt   *time.Time `json:"sla_breach_notified_at,omitempty"  db:"sla_breach_notified_at"`
	IntakeStartedAt       *time.Time `json:"intake_started_at,omitempty"       db:"intake_started_at"`
	IntakeCompletedAt     *time.Time `json:"intake_completed_at,omitempty"     db:"intake_completed_at"`
	ResetStartedAt        *time.Time `json:"reset_started_at,omitempty"        db:"reset_started_at"`
	ResetCompletedAt      *time.Time `json:"reset_completed_at,omitempty"      db:"reset_completed_at"`
	FunctionalStartedAt   *time.Time `json:"functional_started_at,omitempty"   db:"functional_started_at"`
	FunctionalCompletedAt *time.Time `json:"functional_completed_at,omitempty" db:"functional_completed_at"`
	QCStartedAt           *time.Time `json:"qc_started_at,omitempty"           db:"qc_started_at"`
	QCCompletedAt         *time.Time `json:"qc_completed_at,omitempty"         db:"qc_completed_at"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"            db:"completed_at"`
	PiceaVerifyStatus     *string    `json:"picea_verify_status,omitempty"     db:"picea_verify_status"`
	PiceaEraseConfirmed   bool       `json:"picea_erase_confirmed"             db:"picea_erase_confirmed"`
	PiceaMDMLocked        bool       `json:"picea_mdm_locked"                  db:"picea_mdm_locked"`
	CreatedAt             time.Time  `json:"created_at"                        db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"                        db:"updated_at"`
	DeletedAt             *time.Time `json:"deleted_at,omitempty"              db:"deleted_at"`
}

// PhaseCompletedAt returns a pointer to the completion timestamp field for
// the given phase, or nil when the phase has no completion slot.
func (j *Job) PhaseCompletedAt(phase JobStatus) **time.Time {
	switch phase {
	case JobStatusIntake:
		return &j.IntakeCompletedAt
	case JobStatusReset:
		return &j.ResetCompletedAt
	case JobStatusFunctional:
		return &j.FunctionalCompletedAt
	case JobStatusQC:
		return &j.QCCompletedAt
	}
	return nil
}

// PhaseStartedAt returns a pointer to the start timestamp field for the
// given phase, or nil when the phase has no start slot.
func (j *Job) PhaseStartedAt(phase JobStatus) **time.Time {
	switch phase {
	case JobStatusIntake:
		return &j.IntakeStartedAt
	case JobStatusReset:
		return &j.ResetStartedAt
	case JobStatusFunctional:
		return &j.FunctionalStartedAt
	case JobStatusQC:
		return &j.QCStartedAt
	}
	return nil
}

// CreateJobRequest represents a request to register a new unit at intake.
type CreateJobRequest struct {
	SerialNumber string  `json:"serial_number"`
	DeviceID     string  `json:"device_id"`
	BatchID      *string `json:"batch_id,omitempty"`
	TechnicianID *string `json:"technician_id,omitempty"`
}

// Validate validates the CreateJobRequest fields.
func (r *CreateJobRequest) Validate() error {
	if strings.TrimSpace(r.SerialNumber) == "" {
		return errors.New("serial number is required")
	}
	if strings.TrimSpace(r.DeviceID) == "" {
		return errors.New("device id is required")
	}
	return nil
}

// TransitionRequest represents a request to advance a job to its next phase.
type TransitionRequest struct {
	Status JobStatus `json:"status"`
}

// Validate validates the TransitionRequest fields.
func (r *TransitionRequest) Validate() error {
	if !r.Status.Valid() {
		return errors.New("invalid target status")
	}
	if r.Status == JobStatusFailed {
		return errors.New("use the fail operation to mark a job failed")
	}
	return nil
}

// FailJobRequest represents a request to pull a unit from the pipeline.
type FailJobRequest struct {
	Reason string `json:"reason"`
}

// Validate validates the FailJobRequest fields.
func (r *FailJobRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return errors.New("failure reason is required")
	}
	return nil
}

// OptionalString distinguishes an absent JSON field from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler. The field is marked Set for
// both a string value and an explicit null.
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// MarshalJSON implements json.Marshaler. An unset field marshals to null
// as well; pair with omitzero to drop it from the payload instead.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// IsZero reports whether the field was never set.
func (o OptionalString) IsZero() bool {
	return !o.Set
}

// SetString returns an OptionalString holding the given value.
func SetString(v string) OptionalString {
	return OptionalString{Set: true, Value: &v}
}

// ClearString returns an OptionalString holding an explicit null.
func ClearString() OptionalString {
	return OptionalString{Set: true}
}

// AssignJobRequest assigns a station, a technician, or both to a job.
// An explicit null station_id returns the job to the unassigned queue.
type AssignJobRequest struct {
	StationID    OptionalString `json:"station_id,omitzero"`
	TechnicianID *string        `json:"technician_id,omitempty"`
}

// Validate validates the AssignJobRequest fields.
func (r *AssignJobRequest) Validate() error {
	if !r.StationID.Set && r.TechnicianID == nil {
		return errors.New("station id or technician id is required")
	}
	return nil
}

// DiagnosticsUpdate carries test-tool result flags reported for a unit.
// Nil fields are left unchanged.
type DiagnosticsUpdate struct {
	PiceaVerifyStatus   *string `json:"picea_verify_status,omitempty"`
	PiceaEraseConfirmed *bool   `json:"picea_erase_confirmed,omitempty"`
	PiceaMDMLocked      *bool   `json:"picea_mdm_locked,omitempty"`
}

// Validate validates the DiagnosticsUpdate fields.
func (d *DiagnosticsUpdate) Validate() error {
	if d.PiceaVerifyStatus == nil && d.PiceaEraseConfirmed == nil && d.PiceaMDMLocked == nil {
		return errors.New("at least one diagnostic field is required")
	}
	return nil
}
