package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lowrester/Veriqko/config"
	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
	"github.com/lowrester/Veriqko/internal/mocks"
	"github.com/lowrester/Veriqko/internal/observability/notify"
	"github.com/lowrester/Veriqko/internal/service/slanotifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// recordingSink captures every alert it accepts and can be told to fail.
type recordingSink struct {
	mu      sync.Mutex
	alerts  []notify.SLAAlertPayload
	sendErr error
}

func (s *recordingSink) SendSLAAlert(_ context.Context, payload notify.SLAAlertPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.alerts = append(s.alerts, payload)
	return nil
}

func (s *recordingSink) Alerts() []notify.SLAAlertPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.SLAAlertPayload, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func testMonitorConfig() config.SLAMonitorConfig {
	return config.SLAMonitorConfig{
		Interval:         time.Minute,
		WarningWindow:    2 * time.Hour,
		BatchSize:        500,
		DefaultRecipient: "manager@veriqko.local",
	}
}

func newTestMonitor(
	t *testing.T,
	repo *mocks.MockSLARepository,
	sink *recordingSink,
	now time.Time,
) *SLAMonitorService {
	t.Helper()

	notifier := slanotifier.NewService(slanotifier.Options{
		Sinks: []slanotifier.SinkRegistration{{Name: "test", Sink: sink}},
	})

	svc, err := NewSLAMonitorService(SLAMonitorServiceOptions{
		Repo:         repo,
		Notifier:     notifier,
		Config:       testMonitorConfig(),
		TimeProvider: data.NewFixedTimeProvider(now),
	})
	require.NoError(t, err)
	return svc
}

func slaJob(id string, status model.JobStatus, due time.Time) *model.Job {
	return &model.Job{
		ID:           id,
		SerialNumber: "SN-" + id,
		Status:       status,
		SLADueAt:     &due,
	}
}

func TestSLAMonitor_BreachAlertFiresOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	sink := &recordingSink{}
	svc := newTestMonitor(t, repo, sink, now)

	job := slaJob("job-1", model.JobStatusReset, now.Add(-time.Hour))
	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return([]*model.Job{job}, nil)
	repo.EXPECT().MarkBreachNotified(gomock.Any(), "job-1").Return(true, nil)

	require.NoError(t, svc.Sweep(context.Background()))

	alerts := sink.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, notify.LevelBreached, alerts[0].Level)
	assert.Equal(t, "SN-job-1", alerts[0].SerialNumber)
	assert.Equal(t, "manager@veriqko.local", alerts[0].Recipient)

	// Next sweep sees the latch set and stays quiet.
	job.SLABreachNotifiedAt = &now
	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return([]*model.Job{job}, nil)
	require.NoError(t, svc.Sweep(context.Background()))
	assert.Len(t, sink.Alerts(), 1)
}

func TestSLAMonitor_WarningAlertInsideWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	sink := &recordingSink{}
	svc := newTestMonitor(t, repo, sink, now)

	job := slaJob("job-2", model.JobStatusFunctional, now.Add(90*time.Minute))
	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return([]*model.Job{job}, nil)
	repo.EXPECT().MarkWarningNotified(gomock.Any(), "job-2").Return(true, nil)

	require.NoError(t, svc.Sweep(context.Background()))

	alerts := sink.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, notify.LevelWarning, alerts[0].Level)
}

func TestSLAMonitor_WarningBoundaryStaysQuiet(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	sink := &recordingSink{}
	svc := newTestMonitor(t, repo, sink, now)

	// Deadline exactly at the window edge is not yet a warning.
	job := slaJob("job-2b", model.JobStatusFunctional, now.Add(2*time.Hour))
	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return([]*model.Job{job}, nil)

	require.NoError(t, svc.Sweep(context.Background()))
	assert.Empty(t, sink.Alerts())
}

func TestSLAMonitor_HealthyJobStaysQuiet(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	sink := &recordingSink{}
	svc := newTestMonitor(t, repo, sink, now)

	// Deadline well outside the 2h warning window.
	job := slaJob("job-3", model.JobStatusIntake, now.Add(10*time.Hour))
	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return([]*model.Job{job}, nil)

	require.NoError(t, svc.Sweep(context.Background()))
	assert.Empty(t, sink.Alerts())
}

func TestSLAMonitor_BreachSupersedesWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	sink := &recordingSink{}
	svc := newTestMonitor(t, repo, sink, now)

	// The deadline passed before any warning fired. Only the breach goes out
	// and the warning latch is never touched.
	job := slaJob("job-4", model.JobStatusQC, now.Add(-5*time.Minute))
	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return([]*model.Job{job}, nil)
	repo.EXPECT().MarkBreachNotified(gomock.Any(), "job-4").Return(true, nil)

	require.NoError(t, svc.Sweep(context.Background()))

	alerts := sink.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, notify.LevelBreached, alerts[0].Level)
}

func TestSLAMonitor_LatchNotSetWhenSendFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	sink := &recordingSink{sendErr: errors.New("webhook down")}
	svc := newTestMonitor(t, repo, sink, now)

	job := slaJob("job-5", model.JobStatusReset, now.Add(-time.Hour))
	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return([]*model.Job{job}, nil)
	// No MarkBreachNotified expectation: a failed delivery must not latch.

	err := svc.Sweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook down")
	assert.Empty(t, sink.Alerts())
}

func TestSLAMonitor_OneFailingJobDoesNotBlockOthers(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	sink := &recordingSink{}
	svc := newTestMonitor(t, repo, sink, now)

	bad := slaJob("job-bad", model.JobStatusReset, now.Add(-time.Hour))
	good := slaJob("job-good", model.JobStatusReset, now.Add(-time.Hour))
	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return([]*model.Job{bad, good}, nil)
	repo.EXPECT().MarkBreachNotified(gomock.Any(), "job-bad").Return(false, errors.New("deadlock detected"))
	repo.EXPECT().MarkBreachNotified(gomock.Any(), "job-good").Return(true, nil)

	err := svc.Sweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job-bad")

	// Both alerts were delivered even though one latch failed.
	assert.Len(t, sink.Alerts(), 2)
}

func TestSLAMonitor_JobWithoutDeadlineSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	sink := &recordingSink{}
	svc := newTestMonitor(t, repo, sink, now)

	job := &model.Job{ID: "job-6", SerialNumber: "SN-job-6", Status: model.JobStatusIntake}
	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return([]*model.Job{job}, nil)

	require.NoError(t, svc.Sweep(context.Background()))
	assert.Empty(t, sink.Alerts())
}

func TestSLAMonitor_RecipientFallsBackToDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	techs := mocks.NewMockTechnicianRepository(ctrl)
	sink := &recordingSink{}

	notifier := slanotifier.NewService(slanotifier.Options{
		Sinks: []slanotifier.SinkRegistration{{Name: "test", Sink: sink}},
	})
	svc, err := NewSLAMonitorService(SLAMonitorServiceOptions{
		Repo:         repo,
		Notifier:     notifier,
		Config:       testMonitorConfig(),
		Technicians:  techs,
		TimeProvider: data.NewFixedTimeProvider(now),
	})
	require.NoError(t, err)

	techID := "tech-1"
	assigned := slaJob("job-7", model.JobStatusReset, now.Add(-time.Hour))
	assigned.TechnicianID = &techID

	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return([]*model.Job{assigned}, nil)
	techs.EXPECT().GetByID(gomock.Any(), techID).
		Return(&model.Technician{ID: techID, Email: "casey@veriqko.local"}, nil)
	repo.EXPECT().MarkBreachNotified(gomock.Any(), "job-7").Return(true, nil)

	require.NoError(t, svc.Sweep(context.Background()))

	alerts := sink.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "casey@veriqko.local", alerts[0].Recipient)
}

func TestSLAMonitor_ListFailureAbortsSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	sink := &recordingSink{}
	svc := newTestMonitor(t, repo, sink, now)

	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return(nil, errors.New("connection refused"))

	err := svc.Sweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list sla candidates")
}

func TestSLAMonitor_RunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := mocks.NewMockSLARepository(ctrl)
	sink := &recordingSink{}
	svc := newTestMonitor(t, repo, sink, now)

	repo.EXPECT().ListSLACandidates(gomock.Any(), 500).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
