package httpx

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
	"github.com/lowrester/Veriqko/internal/mocks"
	"github.com/lowrester/Veriqko/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type routerFixture struct {
	jobs     *mocks.MockJobRepository
	devices  *mocks.MockDeviceRepository
	stations *mocks.MockStationRepository
	techs    *mocks.MockTechnicianRepository
	floor    *mocks.MockFloorReader
	handler  http.Handler
}

func newRouterFixture(t *testing.T, now time.Time) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &routerFixture{
		jobs:     mocks.NewMockJobRepository(ctrl),
		devices:  mocks.NewMockDeviceRepository(ctrl),
		stations: mocks.NewMockStationRepository(ctrl),
		techs:    mocks.NewMockTechnicianRepository(ctrl),
		floor:    mocks.NewMockFloorReader(ctrl),
	}

	tp := data.NewFixedTimeProvider(now)
	deviceSvc := service.NewDeviceService(service.DeviceServiceOptions{Repo: f.devices})
	jobSvc := service.MustNewJobService(service.JobServiceOptions{
		Repo:         f.jobs,
		Devices:      deviceSvc,
		Stations:     f.stations,
		Technicians:  f.techs,
		TimeProvider: tp,
	})
	stationSvc := service.NewStationService(service.StationServiceOptions{Repo: f.stations})
	floorSvc := service.MustNewFloorService(service.FloorServiceOptions{
		Reader:       f.floor,
		TimeProvider: tp,
	})

	f.handler = NewRouter(RouterServices{
		Jobs:                jobSvc,
		Stations:            stationSvc,
		Devices:             deviceSvc,
		Floor:               floorSvc,
		FloorStreamInterval: 20 * time.Millisecond,
	})
	return f
}

func (f *routerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestRouter_CreateJob(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newRouterFixture(t, now)

	f.devices.EXPECT().GetByID(gomock.Any(), "dev-1").
		Return(&model.Device{ID: "dev-1", SLAHours: intPtr(48)}, nil)
	f.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params core.CreateJobParams) (*model.Job, error) {
			return &model.Job{
				ID:           "job-1",
				SerialNumber: params.Request.SerialNumber,
				DeviceID:     params.Request.DeviceID,
				Status:       model.JobStatusIntake,
				SLADueAt:     params.SLADueAt,
			}, nil
		})

	rec := f.do(t, http.MethodPost, "/api/jobs", `{"serial_number":"SN-1001","device_id":"dev-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var job model.Job
	decodeBody(t, rec, &job)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, model.JobStatusIntake, job.Status)
	require.NotNil(t, job.SLADueAt)
}

func TestRouter_CreateJob_UnknownFieldRejected(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	rec := f.do(t, http.MethodPost, "/api/jobs", `{"serial_number":"SN-1","device_id":"d","bogus":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "invalid_json", body["error"])
}

func TestRouter_CreateJob_MissingDeviceIs422(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	f.devices.EXPECT().GetByID(gomock.Any(), "dev-missing").
		Return(nil, apperrors.NotFoundf("device not found"))

	rec := f.do(t, http.MethodPost, "/api/jobs", `{"serial_number":"SN-1","device_id":"dev-missing"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "validation", body["error"])
	assert.Equal(t, "device_id", body["field"])
}

func TestRouter_GetJob_NotFound(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	f.jobs.EXPECT().GetByID(gomock.Any(), "job-missing").
		Return(nil, apperrors.NotFoundf("job %s not found", "job-missing"))

	rec := f.do(t, http.MethodGet, "/api/jobs/job-missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Transition_IllegalEdgeIs409(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	f.jobs.EXPECT().Transition(gomock.Any(), core.TransitionJobParams{ID: "job-1", Next: model.JobStatusQC}).
		Return(nil, apperrors.InvalidTransitionf("cannot move from INTAKE to QC"))

	rec := f.do(t, http.MethodPost, "/api/jobs/job-1/transition", `{"status":"QC"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "invalid_transition", body["error"])
}

func TestRouter_Transition_ClosedJobIs409(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	f.jobs.EXPECT().Transition(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.JobClosedf("job %s is closed", "job-1"))

	rec := f.do(t, http.MethodPost, "/api/jobs/job-1/transition", `{"status":"RESET"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_Transition_FailedTargetIs422(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	rec := f.do(t, http.MethodPost, "/api/jobs/job-1/transition", `{"status":"FAILED"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_FailJob(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	reason := "water damage"
	f.jobs.EXPECT().Fail(gomock.Any(), core.FailJobParams{ID: "job-1", Reason: reason}).
		Return(&model.Job{ID: "job-1", Status: model.JobStatusFailed, FailureReason: &reason}, nil)

	rec := f.do(t, http.MethodPost, "/api/jobs/job-1/fail", `{"reason":"water damage"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var job model.Job
	decodeBody(t, rec, &job)
	assert.Equal(t, model.JobStatusFailed, job.Status)
}

func TestRouter_AssignJob_NullStationClears(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	f.jobs.EXPECT().Assign(gomock.Any(), core.AssignJobParams{
		ID:           "job-1",
		ClearStation: true,
	}).Return(&model.Job{ID: "job-1", Status: model.JobStatusReset}, nil)

	rec := f.do(t, http.MethodPost, "/api/jobs/job-1/assign", `{"station_id":null}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var job model.Job
	decodeBody(t, rec, &job)
	assert.Nil(t, job.StationID)
}

func TestRouter_DeleteJob(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	f.jobs.EXPECT().SoftDelete(gomock.Any(), "job-1").Return(nil)

	rec := f.do(t, http.MethodDelete, "/api/jobs/job-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRouter_CreateStation_DuplicateIs409(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	f.stations.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrStationNameExists)

	rec := f.do(t, http.MethodPost, "/api/stations", `{"name":"Bench 1","type":"bench"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_DeactivateStation(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	f.stations.EXPECT().Deactivate(gomock.Any(), "st-1").Return(true, nil)

	rec := f.do(t, http.MethodPost, "/api/stations/st-1/deactivate", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	decodeBody(t, rec, &body)
	assert.True(t, body["deactivated"])
}

func TestRouter_Dashboard(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newRouterFixture(t, now)

	f.floor.EXPECT().DashboardCounts(gomock.Any()).
		Return(&core.DashboardCounts{Total: 3, Completed: 2, Failed: 1}, nil)
	f.floor.EXPECT().RecentJobs(gomock.Any(), 5).Return(nil, nil)

	rec := f.do(t, http.MethodGet, "/api/stats/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats model.DashboardStats
	decodeBody(t, rec, &stats)
	assert.Equal(t, 3, stats.TotalJobs)
	assert.InDelta(t, 66.7, stats.YieldRate, 0.001)
}

func TestRouter_FloorSnapshot(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newRouterFixture(t, now)

	f.floor.EXPECT().ActiveStations(gomock.Any()).Return([]*model.Station{
		{ID: "st-1", Name: "Bench 1", Type: model.StationTypeBench, IsActive: true},
	}, nil)
	f.floor.EXPECT().ActiveJobSummaries(gomock.Any()).Return(map[string][]model.JobSummary{
		"": {{ID: "job-1", SerialNumber: "SN-1", Status: model.JobStatusIntake}},
	}, nil)

	rec := f.do(t, http.MethodGet, "/api/stats/floor", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap model.FloorSnapshot
	decodeBody(t, rec, &snap)
	require.Len(t, snap.Columns, 2)
	assert.Equal(t, model.UnassignedColumnID, snap.Columns[0].ID)
	assert.Equal(t, "st-1", snap.Columns[1].ID)
}

func TestRouter_FloorStream_FramesAreSSE(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newRouterFixture(t, now)

	f.floor.EXPECT().ActiveStations(gomock.Any()).Return(nil, nil).AnyTimes()
	f.floor.EXPECT().ActiveJobSummaries(gomock.Any()).Return(map[string][]model.JobSummary{
		"": {{ID: "job-1", SerialNumber: "SN-1", Status: model.JobStatusIntake}},
	}, nil).AnyTimes()

	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/stats/floor/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "), "expected SSE data frame, got %q", line)

	var snap model.FloorSnapshot
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &snap))
	require.Len(t, snap.Columns, 1)
	assert.Equal(t, model.UnassignedColumnID, snap.Columns[0].ID)

	// Frame terminator is a blank line.
	blank, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "\n", blank)
}

func TestRouter_Throughput_WindowParam(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newRouterFixture(t, now)

	wantSince := now.Add(-14 * 24 * time.Hour)
	f.floor.EXPECT().PhaseDurations(gomock.Any(), wantSince).
		Return(&core.ThroughputAggregate{SampleSize: 3}, nil)

	rec := f.do(t, http.MethodGet, "/api/stats/throughput?days=14", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report model.ThroughputReport
	decodeBody(t, rec, &report)
	assert.Equal(t, 14, report.WindowDays)
	assert.Equal(t, 3, report.SampleSize)
}

func TestRouter_Technicians_LimitClamped(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newRouterFixture(t, now)

	f.floor.EXPECT().TechnicianCompletions(gomock.Any(), core.TechnicianCompletionsParams{
		Since: now.Add(-7 * 24 * time.Hour),
		Limit: 100,
	}).Return([]model.TechnicianStanding{}, nil)

	rec := f.do(t, http.MethodGet, "/api/stats/technicians?limit=500", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Healthz(t *testing.T) {
	f := newRouterFixture(t, time.Now())

	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyHandler(t *testing.T) {
	// No check configured behaves like the liveness probe.
	rec := httptest.NewRecorder()
	readyHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	readyHandler(func(context.Context) error { return nil })(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	readyHandler(func(context.Context) error { return errors.New("db down") })(rec,
		httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func intPtr(n int) *int { return &n }
