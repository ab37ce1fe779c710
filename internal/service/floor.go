package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
)

// FloorServiceOptions groups dependencies for FloorService.
type FloorServiceOptions struct {
	Reader          core.FloorReader
	Logger          *slog.Logger
	TimeProvider    data.TimeProvider
	RecentJobs      int // Optional: dashboard recent list size, defaults to 5
	LeaderboardDays int // Optional: default leaderboard window, defaults to 7
	ThroughputDays  int // Optional: default throughput window, defaults to 30
}

// FloorService builds read-only projections of pipeline state for the
// floor board and dashboard. It owns no state of its own; every call
// recomputes from the job table.
type FloorService struct {
	reader          core.FloorReader
	logger          *slog.Logger
	timeProvider    data.TimeProvider
	recentJobs      int
	leaderboardDays int
	throughputDays  int
}

// NewFloorService constructs a new FloorService.
func NewFloorService(opts FloorServiceOptions) (*FloorService, error) {
	if opts.Reader == nil {
		return nil, errors.New("FloorReader is required")
	}

	timeProvider := opts.TimeProvider
	if timeProvider == nil {
		timeProvider = &data.RealTimeProvider{}
	}

	recentJobs := opts.RecentJobs
	if recentJobs <= 0 {
		recentJobs = 5
	}

	leaderboardDays := opts.LeaderboardDays
	if leaderboardDays <= 0 {
		leaderboardDays = 7
	}

	throughputDays := opts.ThroughputDays
	if throughputDays <= 0 {
		throughputDays = 30
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "floor_service")
	}

	return &FloorService{
		reader:          opts.Reader,
		logger:          logger,
		timeProvider:    timeProvider,
		recentJobs:      recentJobs,
		leaderboardDays: leaderboardDays,
		throughputDays:  throughputDays,
	}, nil
}

// MustNewFloorService constructs a new FloorService and panics on error.
func MustNewFloorService(opts FloorServiceOptions) *FloorService {
	svc, err := NewFloorService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create FloorService: %v", err))
	}
	return svc
}

// Snapshot assembles the kanban view of the floor: a virtual intake queue
// column for unassigned jobs when any exist, followed by every active
// station in name order. Terminal and deleted jobs never appear.
func (s *FloorService) Snapshot(ctx context.Context) (*model.FloorSnapshot, error) {
	var (
		stations  []*model.Station
		summaries map[string][]model.JobSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stations, err = s.reader.ActiveStations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summaries, err = s.reader.ActiveJobSummaries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	columns := make([]model.FloorColumn, 0, len(stations)+1)

	if unassigned := summaries[""]; len(unassigned) > 0 {
		columns = append(columns, model.FloorColumn{
			ID:   model.UnassignedColumnID,
			Name: model.UnassignedColumnName,
			Type: string(model.StationTypeQueue),
			Jobs: stampSLAStatus(unassigned, now),
		})
	}

	for _, station := range stations {
		jobs := summaries[station.ID]
		if jobs == nil {
			jobs = []model.JobSummary{}
		}
		columns = append(columns, model.FloorColumn{
			ID:   station.ID,
			Name: station.Name,
			Type: string(station.Type),
			Jobs: stampSLAStatus(jobs, now),
		})
	}

	return &model.FloorSnapshot{
		Columns:     columns,
		GeneratedAt: now,
	}, nil
}

// Dashboard aggregates the headline pipeline numbers.
func (s *FloorService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	var (
		counts *core.DashboardCounts
		recent []model.JobSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.reader.DashboardCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.reader.RecentJobs(gctx, s.recentJobs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	return &model.DashboardStats{
		TotalJobs:  counts.Total,
		Completed:  counts.Completed,
		Failed:     counts.Failed,
		InProgress: counts.InProgress,
		YieldRate:  model.YieldRate(counts.Completed, counts.Failed),
		RecentJobs: stampSLAStatus(recent, now),
	}, nil
}

// Throughput reports average dwell time per pipeline phase, in hours
// rounded to two decimals, over jobs completed within the last given
// number of days. Zero or negative days falls back to the default window.
func (s *FloorService) Throughput(ctx context.Context, days int) (*model.ThroughputReport, error) {
	if days <= 0 {
		days = s.throughputDays
	}

	since := s.timeProvider.Now().Add(-time.Duration(days) * 24 * time.Hour)
	agg, err := s.reader.PhaseDurations(ctx, since)
	if err != nil {
		return nil, err
	}

	phases := make([]model.PhaseThroughput, 0, len(agg.Phases))
	for _, row := range agg.Phases {
		phases = append(phases, model.PhaseThroughput{
			Phase:    row.Phase,
			AvgHours: roundHours(row.AvgSeconds),
		})
	}

	return &model.ThroughputReport{
		Phases:        phases,
		TotalAvgHours: roundHours(agg.TotalAvgSeconds),
		SampleSize:    agg.SampleSize,
		WindowDays:    days,
	}, nil
}

// TechnicianLeaderboard ranks technicians by completions over the last
// given number of days. Zero or negative days falls back to the default
// window.
func (s *FloorService) TechnicianLeaderboard(
	ctx context.Context,
	days, limit int,
) ([]model.TechnicianStanding, error) {
	if days <= 0 {
		days = s.leaderboardDays
	}

	since := s.timeProvider.Now().Add(-time.Duration(days) * 24 * time.Hour)
	standings, err := s.reader.TechnicianCompletions(ctx, core.TechnicianCompletionsParams{
		Since: since,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	if standings == nil {
		standings = []model.TechnicianStanding{}
	}
	return standings, nil
}

func stampSLAStatus(jobs []model.JobSummary, now time.Time) []model.JobSummary {
	for i := range jobs {
		jobs[i].SLAStatus = model.SLAStatusAt(jobs[i].SLADueAt, now)
	}
	return jobs
}

func roundHours(seconds float64) float64 {
	return math.Round(seconds/3600*100) / 100
}
