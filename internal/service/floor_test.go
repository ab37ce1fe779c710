package service

import (
	"context"
	"testing"
	"time"

	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
	"github.com/lowrester/Veriqko/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newFloorServiceFixture(t *testing.T, now time.Time) (*mocks.MockFloorReader, *FloorService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockFloorReader(ctrl)

	svc, err := NewFloorService(FloorServiceOptions{
		Reader:       reader,
		TimeProvider: data.NewFixedTimeProvider(now),
	})
	require.NoError(t, err)
	return reader, svc
}

func summary(id string, status model.JobStatus, due *time.Time) model.JobSummary {
	return model.JobSummary{
		ID:           id,
		SerialNumber: "SN-" + id,
		Status:       status,
		SLADueAt:     due,
	}
}

func TestFloorService_Snapshot_UnassignedColumnFirstWhenNonEmpty(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	reader, svc := newFloorServiceFixture(t, now)

	reader.EXPECT().ActiveStations(gomock.Any()).Return([]*model.Station{
		{ID: "st-a", Name: "Bench A", Type: model.StationTypeBench, IsActive: true},
		{ID: "st-b", Name: "Bench B", Type: model.StationTypeBench, IsActive: true},
	}, nil)
	reader.EXPECT().ActiveJobSummaries(gomock.Any()).Return(map[string][]model.JobSummary{
		"":     {summary("job-1", model.JobStatusIntake, nil)},
		"st-a": {summary("job-2", model.JobStatusReset, nil)},
	}, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Columns, 3)
	assert.Equal(t, model.UnassignedColumnID, snap.Columns[0].ID)
	assert.Equal(t, model.UnassignedColumnName, snap.Columns[0].Name)
	assert.Equal(t, string(model.StationTypeQueue), snap.Columns[0].Type)
	assert.Equal(t, "Bench A", snap.Columns[1].Name)
	assert.Equal(t, "Bench B", snap.Columns[2].Name)
	assert.True(t, snap.GeneratedAt.Equal(now))
}

func TestFloorService_Snapshot_NoUnassignedColumnWhenQueueEmpty(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	reader, svc := newFloorServiceFixture(t, now)

	reader.EXPECT().ActiveStations(gomock.Any()).Return([]*model.Station{
		{ID: "st-a", Name: "Bench A", Type: model.StationTypeBench, IsActive: true},
	}, nil)
	reader.EXPECT().ActiveJobSummaries(gomock.Any()).Return(map[string][]model.JobSummary{}, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Columns, 1)
	assert.Equal(t, "st-a", snap.Columns[0].ID)
	// A station with no work still renders as an empty column.
	assert.NotNil(t, snap.Columns[0].Jobs)
	assert.Empty(t, snap.Columns[0].Jobs)
}

func TestFloorService_Snapshot_StampsSLAStatus(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	reader, svc := newFloorServiceFixture(t, now)

	overdue := now.Add(-time.Hour)
	closeBy := now.Add(2 * time.Hour)
	comfortable := now.Add(48 * time.Hour)

	reader.EXPECT().ActiveStations(gomock.Any()).Return(nil, nil)
	reader.EXPECT().ActiveJobSummaries(gomock.Any()).Return(map[string][]model.JobSummary{
		"": {
			summary("job-1", model.JobStatusIntake, &overdue),
			summary("job-2", model.JobStatusIntake, &closeBy),
			summary("job-3", model.JobStatusIntake, &comfortable),
			summary("job-4", model.JobStatusIntake, nil),
		},
	}, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Columns, 1)
	jobs := snap.Columns[0].Jobs
	require.Len(t, jobs, 4)
	assert.Equal(t, model.SLAStatusCritical, jobs[0].SLAStatus)
	assert.Equal(t, model.SLAStatusWarning, jobs[1].SLAStatus)
	assert.Equal(t, model.SLAStatusHealthy, jobs[2].SLAStatus)
	assert.Equal(t, model.SLAStatusNone, jobs[3].SLAStatus)
}

func TestFloorService_Dashboard(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	reader, svc := newFloorServiceFixture(t, now)

	reader.EXPECT().DashboardCounts(gomock.Any()).Return(&core.DashboardCounts{
		Total:      10,
		Completed:  4,
		Failed:     2,
		InProgress: 4,
	}, nil)
	reader.EXPECT().RecentJobs(gomock.Any(), 5).Return([]model.JobSummary{
		summary("job-1", model.JobStatusCompleted, nil),
	}, nil)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, stats.TotalJobs)
	assert.Equal(t, 4, stats.Completed)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 4, stats.InProgress)
	// 4 of 6 closed jobs shipped.
	assert.InDelta(t, 66.7, stats.YieldRate, 0.001)
	require.Len(t, stats.RecentJobs, 1)
}

func TestFloorService_Throughput(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	reader, svc := newFloorServiceFixture(t, now)

	wantSince := now.Add(-30 * 24 * time.Hour)
	reader.EXPECT().PhaseDurations(gomock.Any(), wantSince).Return(&core.ThroughputAggregate{
		Phases: []core.PhaseDurationRow{
			{Phase: model.JobStatusIntake, AvgSeconds: 3600},
			{Phase: model.JobStatusReset, AvgSeconds: 5400},
		},
		TotalAvgSeconds: 10800,
		SampleSize:      12,
	}, nil)

	report, err := svc.Throughput(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, report.Phases, 2)
	assert.Equal(t, model.JobStatusIntake, report.Phases[0].Phase)
	assert.InDelta(t, 1.0, report.Phases[0].AvgHours, 0.001)
	assert.InDelta(t, 1.5, report.Phases[1].AvgHours, 0.001)
	assert.InDelta(t, 3.0, report.TotalAvgHours, 0.001)
	assert.Equal(t, 12, report.SampleSize)
	assert.Equal(t, 30, report.WindowDays)
}

func TestFloorService_Throughput_ExplicitWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	reader, svc := newFloorServiceFixture(t, now)

	wantSince := now.Add(-7 * 24 * time.Hour)
	reader.EXPECT().PhaseDurations(gomock.Any(), wantSince).
		Return(&core.ThroughputAggregate{}, nil)

	report, err := svc.Throughput(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, report.WindowDays)
	assert.Zero(t, report.SampleSize)
}

func TestFloorService_TechnicianLeaderboard_DefaultWindow(t *testing.T) {
	now := time.Date(2024, 5, 8, 9, 0, 0, 0, time.UTC)
	reader, svc := newFloorServiceFixture(t, now)

	wantSince := now.Add(-7 * 24 * time.Hour)
	reader.EXPECT().TechnicianCompletions(gomock.Any(), core.TechnicianCompletionsParams{
		Since: wantSince,
		Limit: 10,
	}).Return(nil, nil)

	standings, err := svc.TechnicianLeaderboard(context.Background(), 0, 10)
	require.NoError(t, err)
	// Empty result serializes as [] rather than null.
	assert.NotNil(t, standings)
	assert.Empty(t, standings)
}
