package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
)

// StationServiceOptions groups dependencies for StationService.
type StationServiceOptions struct {
	Repo   core.StationRepository
	Logger *slog.Logger
}

// StationService orchestrates floor station management.
type StationService struct {
	repo   core.StationRepository
	logger *slog.Logger
}

// NewStationService constructs a new StationService.
func NewStationService(opts StationServiceOptions) *StationService {
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "station_service")
	}
	return &StationService{repo: opts.Repo, logger: logger}
}

// Create registers a new station. Station names are unique on the floor.
func (s *StationService) Create(ctx context.Context, req *model.CreateStationRequest) (*model.Station, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validationf("%s", err.Error())
	}

	station, err := s.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, data.ErrStationNameExists) {
			return nil, apperrors.Conflictf("station %q already exists", req.Name)
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "station created", "id", station.ID, "name", station.Name)
	}

	return station, nil
}

// GetByID retrieves a station by ID.
func (s *StationService) GetByID(ctx context.Context, id string) (*model.Station, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns stations, optionally restricted to active ones.
func (s *StationService) List(ctx context.Context, activeOnly bool) ([]*model.Station, error) {
	return s.repo.List(ctx, activeOnly)
}

// Deactivate retires a station from the floor. Returns false when the
// station was already inactive. Jobs assigned to the station keep their
// assignment.
func (s *StationService) Deactivate(ctx context.Context, id string) (bool, error) {
	deactivated, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return false, err
	}

	if s.logger != nil && deactivated {
		s.logger.InfoContext(ctx, "station deactivated", "id", id)
	}

	return deactivated, nil
}
