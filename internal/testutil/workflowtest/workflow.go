// Package workflowtest provides end-to-end testing utilities for the veriqko refurbishment pipeline.
package workflowtest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
	httpx "github.com/lowrester/Veriqko/internal/http"
	"github.com/lowrester/Veriqko/internal/service"
	"github.com/lowrester/Veriqko/internal/testutil"
	"github.com/redis/go-redis/v9"
)

// WorkflowTestHarness wires real repositories, services, and the production
// router against a test database so tests can drive the pipeline over HTTP.
//
//nolint:revive // WorkflowTestHarness is intentionally verbose for clarity in test code.
type WorkflowTestHarness struct {
	t  testutil.TestingTB
	db *sql.DB
	ts *httptest.Server

	// Repositories
	JobRepo        core.JobRepository
	StationRepo    core.StationRepository
	DeviceRepo     core.DeviceRepository
	TechnicianRepo core.TechnicianRepository
	FloorRepo      core.FloorReader

	// Services
	JobSvc     *service.JobService
	StationSvc *service.StationService
	DeviceSvc  *service.DeviceService
	FloorSvc   *service.FloorService

	// Optional Redis components
	RedisClient *redis.Client
	CacheRepo   core.CacheRepository
}

// WorkflowTestOptions configures the workflow test harness.
//
//nolint:revive // WorkflowTestOptions is intentionally verbose for clarity in test code.
type WorkflowTestOptions struct {
	// EnableRedis puts a Redis cache in front of the device catalog
	EnableRedis bool
	// RedisAddr overrides the default Redis test address
	RedisAddr string
	// DeviceCacheTTL sets the device cache entry TTL
	DeviceCacheTTL time.Duration
	// FloorStreamInterval sets the floor SSE push cadence
	FloorStreamInterval time.Duration
}

// NewWorkflowTestHarness creates a new workflow test harness with all components wired up.
func NewWorkflowTestHarness(t testutil.TestingTB, db *sql.DB, opts WorkflowTestOptions) *WorkflowTestHarness {
	t.Helper()

	if opts.DeviceCacheTTL == 0 {
		opts.DeviceCacheTTL = 5 * time.Minute
	}
	if opts.FloorStreamInterval == 0 {
		opts.FloorStreamInterval = 100 * time.Millisecond
	}

	h := &WorkflowTestHarness{
		t:  t,
		db: db,
	}

	h.JobRepo = data.NewJobRepo(db)
	h.StationRepo = data.NewStationRepo(db)
	h.DeviceRepo = data.NewDeviceRepo(db)
	h.TechnicianRepo = data.NewTechnicianRepo(db)
	h.FloorRepo = data.NewFloorRepo(db)

	if opts.EnableRedis {
		h.setupRedis(opts.RedisAddr)
	}

	h.DeviceSvc = service.NewDeviceService(service.DeviceServiceOptions{
		Repo:  h.DeviceRepo,
		Cache: h.CacheRepo,
		TTL:   opts.DeviceCacheTTL,
	})
	h.StationSvc = service.NewStationService(service.StationServiceOptions{
		Repo: h.StationRepo,
	})
	h.JobSvc = service.MustNewJobService(service.JobServiceOptions{
		Repo:        h.JobRepo,
		Devices:     h.DeviceSvc,
		Stations:    h.StationRepo,
		Technicians: h.TechnicianRepo,
	})
	h.FloorSvc = service.MustNewFloorService(service.FloorServiceOptions{
		Reader: h.FloorRepo,
	})

	// Tests exercise the same router the binary serves.
	router := httpx.NewRouter(httpx.RouterServices{
		Jobs:                h.JobSvc,
		Stations:            h.StationSvc,
		Devices:             h.DeviceSvc,
		Floor:               h.FloorSvc,
		FloorStreamInterval: opts.FloorStreamInterval,
	})
	h.ts = httptest.NewServer(router)

	return h
}

// setupRedis initializes the Redis-backed device cache.
func (h *WorkflowTestHarness) setupRedis(addr string) {
	h.t.Helper()

	if addr == "" {
		client := testutil.SetupTestRedis(h.t)
		h.RedisClient = client
		h.CacheRepo = data.NewRedisCacheRepo(client)
		return
	}

	// Use specific address for custom setups
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		h.t.Logf("redis not available at %s: %v", addr, err)
		if closeErr := client.Close(); closeErr != nil {
			h.t.Logf("warning: failed to close redis client: %v", closeErr)
		}
		h.t.Skip("redis test instance unavailable; run docker-compose profile 'test'")
		return
	}

	h.RedisClient = client
	h.CacheRepo = data.NewRedisCacheRepo(client)
}

// Close cleans up all resources.
func (h *WorkflowTestHarness) Close() {
	h.t.Helper()

	if h.ts != nil {
		h.ts.Close()
	}
	if h.RedisClient != nil {
		if err := h.RedisClient.Close(); err != nil {
			h.t.Logf("warning: failed to close redis client: %v", err)
		}
	}
}

// BaseURL returns the base URL of the test HTTP server.
func (h *WorkflowTestHarness) BaseURL() string {
	return h.ts.URL
}

// HTTPClient provides utilities for making HTTP requests to the test server.
type HTTPClient struct {
	t       testutil.TestingTB
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a new HTTP client for testing.
func (h *WorkflowTestHarness) NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		t:       h.t,
		baseURL: h.BaseURL(),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// DoJSON creates a request with context and performs it using the harness client.
func (c *HTTPClient) DoJSON(method, path string, payload any) *http.Response {
	c.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			c.t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *HTTPClient) decodeOrFail(resp *http.Response, wantStatus int, what string, out any) {
	c.t.Helper()
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.t.Logf("warning: failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != wantStatus {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			c.t.Fatalf("%s status: %d, failed to read response: %v", what, resp.StatusCode, err)
		}
		c.t.Fatalf("%s status: %d, response: %s", what, resp.StatusCode, string(body))
	}
	if out == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.t.Fatalf("decode %s: %v", what, err)
	}
}

// CreateDevice registers a device profile via HTTP API.
func (c *HTTPClient) CreateDevice(req *model.CreateDeviceRequest) model.Device {
	c.t.Helper()

	resp := c.DoJSON(http.MethodPost, "/api/devices", req)
	var device model.Device
	c.decodeOrFail(resp, http.StatusCreated, "create device", &device)
	return device
}

// CreateStation registers a floor station via HTTP API.
func (c *HTTPClient) CreateStation(req *model.CreateStationRequest) model.Station {
	c.t.Helper()

	resp := c.DoJSON(http.MethodPost, "/api/stations", req)
	var station model.Station
	c.decodeOrFail(resp, http.StatusCreated, "create station", &station)
	return station
}

// CreateJob registers a unit at intake via HTTP API and returns the created job.
func (c *HTTPClient) CreateJob(req *model.CreateJobRequest) model.Job {
	c.t.Helper()

	resp := c.DoJSON(http.MethodPost, "/api/jobs", req)
	var job model.Job
	c.decodeOrFail(resp, http.StatusCreated, "create job", &job)
	return job
}

// GetJob fetches a job via HTTP API.
func (c *HTTPClient) GetJob(jobID string) model.Job {
	c.t.Helper()

	resp := c.DoJSON(http.MethodGet, "/api/jobs/"+jobID, nil)
	var job model.Job
	c.decodeOrFail(resp, http.StatusOK, "get job", &job)
	return job
}

// TransitionJob advances a job to the given phase via HTTP API.
func (c *HTTPClient) TransitionJob(jobID string, next model.JobStatus) model.Job {
	c.t.Helper()

	path := fmt.Sprintf("/api/jobs/%s/transition", jobID)
	resp := c.DoJSON(http.MethodPost, path, model.TransitionRequest{Status: next})
	var job model.Job
	c.decodeOrFail(resp, http.StatusOK, "transition job", &job)
	return job
}

// FailJob pulls a unit from the pipeline via HTTP API.
func (c *HTTPClient) FailJob(jobID, reason string) model.Job {
	c.t.Helper()

	path := fmt.Sprintf("/api/jobs/%s/fail", jobID)
	resp := c.DoJSON(http.MethodPost, path, model.FailJobRequest{Reason: reason})
	var job model.Job
	c.decodeOrFail(resp, http.StatusOK, "fail job", &job)
	return job
}

// AssignJob moves a job to a station, a technician, or both via HTTP API.
func (c *HTTPClient) AssignJob(jobID string, req *model.AssignJobRequest) model.Job {
	c.t.Helper()

	path := fmt.Sprintf("/api/jobs/%s/assign", jobID)
	resp := c.DoJSON(http.MethodPost, path, req)
	var job model.Job
	c.decodeOrFail(resp, http.StatusOK, "assign job", &job)
	return job
}

// FloorSnapshot fetches the current floor board projection via HTTP API.
func (c *HTTPClient) FloorSnapshot() model.FloorSnapshot {
	c.t.Helper()

	resp := c.DoJSON(http.MethodGet, "/api/stats/floor", nil)
	var snapshot model.FloorSnapshot
	c.decodeOrFail(resp, http.StatusOK, "floor snapshot", &snapshot)
	return snapshot
}

// Dashboard fetches the dashboard stats via HTTP API.
func (c *HTTPClient) Dashboard() model.DashboardStats {
	c.t.Helper()

	resp := c.DoJSON(http.MethodGet, "/api/stats/dashboard", nil)
	var stats model.DashboardStats
	c.decodeOrFail(resp, http.StatusOK, "dashboard", &stats)
	return stats
}

// WorkflowHelpers provides high-level workflow testing utilities.
type WorkflowHelpers struct {
	harness *WorkflowTestHarness
	client  *HTTPClient
}

// NewWorkflowHelpers creates workflow helpers for the given harness.
func (h *WorkflowTestHarness) NewWorkflowHelpers() *WorkflowHelpers {
	return &WorkflowHelpers{
		harness: h,
		client:  h.NewHTTPClient(),
	}
}

// Client returns the underlying HTTP client for direct calls.
func (w *WorkflowHelpers) Client() *HTTPClient {
	return w.client
}

// CreateTestDevice creates a device profile with a unique model name and the
// given SLA budget. A nil budget produces a device with no deadline.
func (w *WorkflowHelpers) CreateTestDevice(slaHours *int) model.Device {
	w.harness.t.Helper()

	req := &model.CreateDeviceRequest{
		Brand:      "Apple",
		DeviceType: "phone",
		Model:      fmt.Sprintf("Test Model %d", time.Now().UnixNano()),
		SLAHours:   slaHours,
	}
	return w.client.CreateDevice(req)
}

// IntakeUnit creates a device profile and registers a unit against it.
func (w *WorkflowHelpers) IntakeUnit(serial string, slaHours *int) (model.Device, model.Job) {
	w.harness.t.Helper()

	device := w.CreateTestDevice(slaHours)
	job := w.client.CreateJob(&model.CreateJobRequest{
		SerialNumber: serial,
		DeviceID:     device.ID,
	})
	if job.Status != model.JobStatusIntake {
		w.harness.t.Fatalf("expected new job in INTAKE, got %s", job.Status)
	}
	return device, job
}

// RunCompletePipeline walks a unit through every phase of the pipeline:
// intake, reset, functional testing, quality control, and completion.
func (w *WorkflowHelpers) RunCompletePipeline(serial string, slaHours *int) model.Job {
	w.harness.t.Helper()

	_, job := w.IntakeUnit(serial, slaHours)

	phases := []model.JobStatus{
		model.JobStatusReset,
		model.JobStatusFunctional,
		model.JobStatusQC,
		model.JobStatusCompleted,
	}
	for _, next := range phases {
		job = w.client.TransitionJob(job.ID, next)
		if job.Status != next {
			w.harness.t.Fatalf("expected status %s after transition, got %s", next, job.Status)
		}
	}
	return job
}

// RunFailedPipeline registers a unit and pulls it from the pipeline mid-reset.
func (w *WorkflowHelpers) RunFailedPipeline(serial, reason string) model.Job {
	w.harness.t.Helper()

	_, job := w.IntakeUnit(serial, nil)
	job = w.client.TransitionJob(job.ID, model.JobStatusReset)
	return w.client.FailJob(job.ID, reason)
}

// skipIfRedisUnavailable skips the test if Redis is required but unavailable.
func skipIfRedisUnavailable(t testutil.TestingTB, opts WorkflowTestOptions) {
	t.Helper()

	if !opts.EnableRedis {
		return
	}

	if opts.RedisAddr == "" {
		// Use centralized Redis address detection
		if _, ok := testutil.GetTestRedisAddr(t); !ok {
			t.Skip("redis test instance unavailable; run docker-compose profile 'test'")
		}
		return
	}

	// Test specific address by trying to connect
	client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
	defer func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	}()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skip("redis test instance unavailable; run docker-compose profile 'test'")
	}
}

// WithWorkflowHarness is a helper that sets up and tears down a workflow test harness.
func WithWorkflowHarness(t testutil.TestingTB, opts WorkflowTestOptions, fn func(*WorkflowTestHarness)) {
	t.Helper()

	testutil.SkipIfNoTestDB(t)
	skipIfRedisUnavailable(t, opts)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		harness := NewWorkflowTestHarness(t, db, opts)
		defer harness.Close()
		fn(harness)
	})
}

// DefaultWorkflowOptions returns default options for workflow testing.
func DefaultWorkflowOptions() WorkflowTestOptions {
	return WorkflowTestOptions{
		EnableRedis: false,
	}
}

// RedisWorkflowOptions returns options for workflow testing with the device cache enabled.
func RedisWorkflowOptions() WorkflowTestOptions {
	return WorkflowTestOptions{
		EnableRedis: true,
	}
}
