package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo         core.JobRepository     // Required: job repository
	Devices      *DeviceService         // Required: device lookup for SLA deadline computation
	Stations     core.StationRepository // Required: station validation on assignment
	Technicians  core.TechnicianRepository
	Logger       *slog.Logger // Optional: structured logger
	TimeProvider data.TimeProvider
}

// JobService provides business logic for refurbishment job operations.
//
// This service manages:
// - Job intake with SLA deadline computation from the device model
// - Phase transitions through the pipeline state machine
// - Failure and bench assignment
// - Diagnostics result recording
// - Soft deletion.
type JobService struct {
	repo         core.JobRepository
	devices      *DeviceService
	stations     core.StationRepository
	technicians  core.TechnicianRepository
	logger       *slog.Logger
	timeProvider data.TimeProvider
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Devices == nil {
		return nil, errors.New("DeviceService is required")
	}
	if opts.Stations == nil {
		return nil, errors.New("StationRepository is required")
	}
	if opts.Technicians == nil {
		return nil, errors.New("TechnicianRepository is required")
	}

	timeProvider := opts.TimeProvider
	if timeProvider == nil {
		timeProvider = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "job_service")
	}

	return &JobService{
		repo:         opts.Repo,
		devices:      opts.Devices,
		stations:     opts.Stations,
		technicians:  opts.Technicians,
		logger:       logger,
		timeProvider: timeProvider,
	}, nil
}

// MustNewJobService constructs a new JobService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewJobService(opts JobServiceOptions) *JobService {
	svc, err := NewJobService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create JobService: %v", err))
	}
	return svc
}

// Create registers a newly received unit at intake. When the device model
// carries an SLA budget, the deadline is stamped from the current time.
func (s *JobService) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validationf("%s", err.Error())
	}

	device, err := s.devices.GetByID(ctx, req.DeviceID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ValidationField("device_id",
				fmt.Sprintf("device %s does not exist", req.DeviceID))
		}
		return nil, fmt.Errorf("resolve device %s: %w", req.DeviceID, err)
	}

	var slaDueAt *time.Time
	if device.SLAHours != nil && *device.SLAHours > 0 {
		due := s.timeProvider.Now().Add(time.Duration(*device.SLAHours) * time.Hour)
		slaDueAt = &due
	}

	job, err := s.repo.Create(ctx, core.CreateJobParams{
		Request:  req,
		SLADueAt: slaDueAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job created",
			"id", job.ID,
			"serial_number", job.SerialNumber,
			"device_id", job.DeviceID,
			"has_sla", slaDueAt != nil,
		)
	}

	return job, nil
}

// GetByID returns a job by its ID.
func (s *JobService) GetByID(ctx context.Context, id string) (*model.Job, error) {
	return s.repo.GetByID(ctx, id)
}

// Transition advances a job to the next phase of the pipeline. The target
// status must be the immediate successor of the current status; completed
// phases keep their original timestamps.
func (s *JobService) Transition(ctx context.Context, id string, req *model.TransitionRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("status", err.Error())
	}

	job, err := s.repo.Transition(ctx, core.TransitionJobParams{
		ID:   id,
		Next: req.Status,
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job transitioned", "id", id, "status", job.Status)
	}

	return job, nil
}

// Fail moves an active job to the failed terminal state with a reason.
func (s *JobService) Fail(ctx context.Context, id string, req *model.FailJobRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("reason", err.Error())
	}

	job, err := s.repo.Fail(ctx, core.FailJobParams{
		ID:     id,
		Reason: req.Reason,
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job failed", "id", id, "reason", req.Reason)
	}

	return job, nil
}

// Assign moves a job to a bench station, changes its technician, or both.
// An explicit null station returns the job to the unassigned queue.
// Provided references are validated before the update is applied.
func (s *JobService) Assign(ctx context.Context, id string, req *model.AssignJobRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validationf("%s", err.Error())
	}

	if req.StationID.Set && req.StationID.Value != nil {
		stationID := *req.StationID.Value
		station, err := s.stations.GetByID(ctx, stationID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.ValidationField("station_id",
					fmt.Sprintf("station %s does not exist", stationID))
			}
			return nil, fmt.Errorf("resolve station %s: %w", stationID, err)
		}
		if !station.IsActive {
			return nil, apperrors.ValidationField("station_id",
				fmt.Sprintf("station %s is not active", station.Name))
		}
	}

	if req.TechnicianID != nil {
		if _, err := s.technicians.GetByID(ctx, *req.TechnicianID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.ValidationField("technician_id",
					fmt.Sprintf("technician %s does not exist", *req.TechnicianID))
			}
			return nil, fmt.Errorf("resolve technician %s: %w", *req.TechnicianID, err)
		}
	}

	params := core.AssignJobParams{
		ID:           id,
		TechnicianID: req.TechnicianID,
	}
	if req.StationID.Set {
		if req.StationID.Value == nil {
			params.ClearStation = true
		} else {
			params.StationID = req.StationID.Value
		}
	}

	job, err := s.repo.Assign(ctx, params)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job assigned", "id", id)
	}

	return job, nil
}

// UpdateDiagnostics records automated diagnostics results on a job.
func (s *JobService) UpdateDiagnostics(
	ctx context.Context,
	id string,
	update model.DiagnosticsUpdate,
) (*model.Job, error) {
	if err := update.Validate(); err != nil {
		return nil, apperrors.Validationf("%s", err.Error())
	}

	job, err := s.repo.UpdateDiagnostics(ctx, id, update)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job diagnostics updated", "id", id)
	}

	return job, nil
}

// Delete soft-deletes a job. Deleted jobs disappear from reads and sweeps
// but remain in the database for audit.
func (s *JobService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ValidationField("id", "job id is required")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job deleted", "id", id)
	}

	return nil
}
