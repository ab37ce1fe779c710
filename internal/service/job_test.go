package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
	"github.com/lowrester/Veriqko/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type jobServiceFixture struct {
	repo    *mocks.MockJobRepository
	devices *mocks.MockDeviceRepository
	station *mocks.MockStationRepository
	techs   *mocks.MockTechnicianRepository
	svc     *JobService
}

func newJobServiceFixture(t *testing.T, now time.Time) *jobServiceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &jobServiceFixture{
		repo:    mocks.NewMockJobRepository(ctrl),
		devices: mocks.NewMockDeviceRepository(ctrl),
		station: mocks.NewMockStationRepository(ctrl),
		techs:   mocks.NewMockTechnicianRepository(ctrl),
	}

	deviceSvc := NewDeviceService(DeviceServiceOptions{Repo: f.devices})

	svc, err := NewJobService(JobServiceOptions{
		Repo:         f.repo,
		Devices:      deviceSvc,
		Stations:     f.station,
		Technicians:  f.techs,
		TimeProvider: data.NewFixedTimeProvider(now),
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func TestJobService_Create_StampsDeadlineFromDeviceSLA(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	f := newJobServiceFixture(t, now)

	f.devices.EXPECT().GetByID(gomock.Any(), "dev-1").
		Return(&model.Device{ID: "dev-1", Brand: "Apple", Model: "iPhone 13", SLAHours: intPtr(48)}, nil)

	wantDue := now.Add(48 * time.Hour)
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params core.CreateJobParams) (*model.Job, error) {
			require.NotNil(t, params.SLADueAt)
			assert.True(t, params.SLADueAt.Equal(wantDue))
			return &model.Job{
				ID:           "job-1",
				SerialNumber: params.Request.SerialNumber,
				DeviceID:     params.Request.DeviceID,
				Status:       model.JobStatusIntake,
				SLADueAt:     params.SLADueAt,
			}, nil
		})

	job, err := f.svc.Create(context.Background(), &model.CreateJobRequest{
		SerialNumber: "SN-0001",
		DeviceID:     "dev-1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusIntake, job.Status)
	require.NotNil(t, job.SLADueAt)
	assert.True(t, job.SLADueAt.Equal(wantDue))
}

func TestJobService_Create_NoSLAForUnbudgetedDevice(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	f := newJobServiceFixture(t, now)

	// Accessories carry no SLA budget, so the job never gets a deadline.
	f.devices.EXPECT().GetByID(gomock.Any(), "dev-2").
		Return(&model.Device{ID: "dev-2", Brand: "Acme", Model: "Charging Dock"}, nil)

	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params core.CreateJobParams) (*model.Job, error) {
			assert.Nil(t, params.SLADueAt)
			return &model.Job{ID: "job-2", Status: model.JobStatusIntake}, nil
		})

	_, err := f.svc.Create(context.Background(), &model.CreateJobRequest{
		SerialNumber: "SN-0002",
		DeviceID:     "dev-2",
	})
	require.NoError(t, err)
}

func TestJobService_Create_UnknownDeviceIsValidationError(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	f.devices.EXPECT().GetByID(gomock.Any(), "dev-missing").
		Return(nil, apperrors.NotFoundf("device %s not found", "dev-missing"))

	_, err := f.svc.Create(context.Background(), &model.CreateJobRequest{
		SerialNumber: "SN-0003",
		DeviceID:     "dev-missing",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "device_id", apperrors.GetField(err))
}

func TestJobService_Create_InvalidRequestRejected(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	_, err := f.svc.Create(context.Background(), &model.CreateJobRequest{DeviceID: "dev-1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobService_Transition_RejectsFailedTarget(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	_, err := f.svc.Transition(context.Background(), "job-1",
		&model.TransitionRequest{Status: model.JobStatusFailed})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "status", apperrors.GetField(err))
}

func TestJobService_Transition_PassesRepoErrorsThrough(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	f.repo.EXPECT().Transition(gomock.Any(), core.TransitionJobParams{ID: "job-1", Next: model.JobStatusQC}).
		Return(nil, apperrors.InvalidTransitionf("cannot move from INTAKE to QC"))

	_, err := f.svc.Transition(context.Background(), "job-1",
		&model.TransitionRequest{Status: model.JobStatusQC})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestJobService_Fail_RequiresReason(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	_, err := f.svc.Fail(context.Background(), "job-1", &model.FailJobRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "reason", apperrors.GetField(err))
}

func TestJobService_Fail_RecordsReason(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	reason := "cracked display"
	f.repo.EXPECT().Fail(gomock.Any(), core.FailJobParams{ID: "job-1", Reason: reason}).
		Return(&model.Job{ID: "job-1", Status: model.JobStatusFailed, FailureReason: &reason}, nil)

	job, err := f.svc.Fail(context.Background(), "job-1", &model.FailJobRequest{Reason: reason})
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	require.NotNil(t, job.FailureReason)
	assert.Equal(t, reason, *job.FailureReason)
}

func TestJobService_Assign_RejectsInactiveStation(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	f.station.EXPECT().GetByID(gomock.Any(), "st-1").
		Return(&model.Station{ID: "st-1", Name: "Bench 3", IsActive: false}, nil)

	_, err := f.svc.Assign(context.Background(), "job-1",
		&model.AssignJobRequest{StationID: model.SetString("st-1")})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "station_id", apperrors.GetField(err))
}

func TestJobService_Assign_UnknownTechnicianIsValidationError(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	f.techs.EXPECT().GetByID(gomock.Any(), "tech-missing").
		Return(nil, apperrors.NotFoundf("technician %s not found", "tech-missing"))

	_, err := f.svc.Assign(context.Background(), "job-1",
		&model.AssignJobRequest{TechnicianID: strPtr("tech-missing")})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "technician_id", apperrors.GetField(err))
}

func TestJobService_Assign_StationAndTechnician(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	stationID := "st-1"
	techID := "tech-1"
	f.station.EXPECT().GetByID(gomock.Any(), stationID).
		Return(&model.Station{ID: stationID, Name: "Bench 1", IsActive: true}, nil)
	f.techs.EXPECT().GetByID(gomock.Any(), techID).
		Return(&model.Technician{ID: techID, Email: "casey@veriqko.local"}, nil)
	f.repo.EXPECT().Assign(gomock.Any(), core.AssignJobParams{
		ID:           "job-1",
		StationID:    &stationID,
		TechnicianID: &techID,
	}).Return(&model.Job{ID: "job-1", StationID: &stationID, TechnicianID: &techID}, nil)

	job, err := f.svc.Assign(context.Background(), "job-1", &model.AssignJobRequest{
		StationID:    model.SetString(stationID),
		TechnicianID: &techID,
	})
	require.NoError(t, err)
	require.NotNil(t, job.StationID)
	assert.Equal(t, stationID, *job.StationID)
}

func TestJobService_Assign_NullStationClearsAssignment(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	f.repo.EXPECT().Assign(gomock.Any(), core.AssignJobParams{
		ID:           "job-1",
		ClearStation: true,
	}).Return(&model.Job{ID: "job-1"}, nil)

	job, err := f.svc.Assign(context.Background(), "job-1", &model.AssignJobRequest{
		StationID: model.ClearString(),
	})
	require.NoError(t, err)
	assert.Nil(t, job.StationID)
}

func TestJobService_Assign_RequiresAtLeastOneTarget(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	_, err := f.svc.Assign(context.Background(), "job-1", &model.AssignJobRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobService_UpdateDiagnostics_RequiresAtLeastOneField(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	_, err := f.svc.UpdateDiagnostics(context.Background(), "job-1", model.DiagnosticsUpdate{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobService_Delete(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	f.repo.EXPECT().SoftDelete(gomock.Any(), "job-1").Return(nil)
	require.NoError(t, f.svc.Delete(context.Background(), "job-1"))

	err := f.svc.Delete(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobService_Delete_PassesRepoErrorThrough(t *testing.T) {
	f := newJobServiceFixture(t, time.Now())

	f.repo.EXPECT().SoftDelete(gomock.Any(), "job-9").Return(errors.New("connection reset"))
	err := f.svc.Delete(context.Background(), "job-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
