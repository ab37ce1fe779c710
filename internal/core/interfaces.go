// Package core provides the port definitions for the veriqko refurbishment pipeline.
package core

import (
	"context"
	"time"

	"github.com/lowrester/Veriqko/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// CreateJobParams groups parameters for JobRepository.Create to keep param count ≤3.
type CreateJobParams struct {
	Request  *model.CreateJobRequest
	SLADueAt *time.Time
}

// TransitionJobParams groups parameters for JobRepository.Transition.
type TransitionJobParams struct {
	ID   string
	Next model.JobStatus
}

// FailJobParams groups parameters for JobRepository.Fail.
type FailJobParams struct {
	ID     string
	Reason string
}

// AssignJobParams groups parameters for JobRepository.Assign. Nil fields
// are left unchanged; ClearStation sets the station reference to NULL and
// takes precedence over StationID.
type AssignJobParams struct {
	ID           string
	StationID    *string
	ClearStation bool
	TechnicianID *string
}

// JobRepository defines the interface for job lifecycle data operations.
// All reads and writes exclude soft-deleted rows.
type JobRepository interface {
	Create(ctx context.Context, params CreateJobParams) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	// Transition atomically validates and applies a pipeline edge, stamping
	// the completed phase timestamp exactly once.
	Transition(ctx context.Context, params TransitionJobParams) (*model.Job, error)
	// Fail pulls an active job from the pipeline with a reason.
	Fail(ctx context.Context, params FailJobParams) (*model.Job, error)
	Assign(ctx context.Context, params AssignJobParams) (*model.Job, error)
	UpdateDiagnostics(ctx context.Context, id string, update model.DiagnosticsUpdate) (*model.Job, error)
	// SoftDelete tombstones a job. Tombstoned jobs vanish from every other
	// operation.
	SoftDelete(ctx context.Context, id string) error
}

// SLARepository defines the interface for deadline sweep data operations.
type SLARepository interface {
	// ListSLACandidates returns active, non-deleted jobs that carry a
	// deadline, oldest deadline first.
	ListSLACandidates(ctx context.Context, limit int) ([]*model.Job, error)
	// MarkWarningNotified latches the warning timestamp if the job is still
	// active, not deleted, and the latch is unset. Returns whether the
	// latch was applied.
	MarkWarningNotified(ctx context.Context, jobID string) (bool, error)
	// MarkBreachNotified latches the breach timestamp under the same
	// conditions as MarkWarningNotified.
	MarkBreachNotified(ctx context.Context, jobID string) (bool, error)
}

// DashboardCounts holds the aggregate job counters for the overview page.
type DashboardCounts struct {
	Total      int
	Completed  int
	Failed     int
	InProgress int
}

// PhaseDurationRow is one phase's average dwell time over completed jobs.
type PhaseDurationRow struct {
	Phase      model.JobStatus
	AvgSeconds float64
}

// ThroughputAggregate carries raw dwell averages over jobs completed
// within a window: per-phase start-to-completion, plus the intake-to-done
// total and the number of jobs sampled.
type ThroughputAggregate struct {
	Phases          []PhaseDurationRow
	TotalAvgSeconds float64
	SampleSize      int
}

// TechnicianCompletionsParams groups parameters for FloorReader.TechnicianCompletions.
type TechnicianCompletionsParams struct {
	Since time.Time
	Limit int
}

// FloorReader defines the read-model queries backing the floor board and
// dashboard projections.
type FloorReader interface {
	// ActiveStations returns active stations ordered by name.
	ActiveStations(ctx context.Context) ([]*model.Station, error)
	// ActiveJobSummaries returns summaries of non-terminal, non-deleted
	// jobs keyed by their station assignment (nil station means the
	// unassigned queue).
	ActiveJobSummaries(ctx context.Context) (map[string][]model.JobSummary, error)
	DashboardCounts(ctx context.Context) (*DashboardCounts, error)
	RecentJobs(ctx context.Context, limit int) ([]model.JobSummary, error)
	// PhaseDurations returns average phase dwell times over jobs completed
	// at or after the given instant.
	PhaseDurations(ctx context.Context, since time.Time) (*ThroughputAggregate, error)
	TechnicianCompletions(ctx context.Context, params TechnicianCompletionsParams) ([]model.TechnicianStanding, error)
}

// StationRepository defines the interface for station data operations.
type StationRepository interface {
	Create(ctx context.Context, req *model.CreateStationRequest) (*model.Station, error)
	GetByID(ctx context.Context, id string) (*model.Station, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Station, error)
	// Deactivate retires a station from the floor. Returns false when the
	// station was already inactive.
	Deactivate(ctx context.Context, id string) (bool, error)
}

// DeviceRepository defines the interface for device catalog data operations.
type DeviceRepository interface {
	Create(ctx context.Context, req *model.CreateDeviceRequest) (*model.Device, error)
	GetByID(ctx context.Context, id string) (*model.Device, error)
	List(ctx context.Context, limit, offset int) ([]*model.Device, error)
}

// TechnicianRepository defines the interface for technician lookups.
type TechnicianRepository interface {
	GetByID(ctx context.Context, id string) (*model.Technician, error)
	List(ctx context.Context) ([]*model.Technician, error)
}

// CacheRepository defines the interface for the device-profile cache in
// front of Postgres.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}
