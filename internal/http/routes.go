package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/lowrester/Veriqko/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs     *service.JobService
	Stations *service.StationService
	Devices  *service.DeviceService
	Floor    *service.FloorService
	// FloorStreamInterval is the push cadence for the floor SSE stream.
	FloorStreamInterval time.Duration
	// ReadyCheck backs the readiness probe (optional). Usually a DB ping.
	ReadyCheck func(context.Context) error
	Logger     *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{Svc: services.Jobs}
	stationHandlers := &StationHandlers{Svc: services.Stations}
	deviceHandlers := &DeviceHandlers{Svc: services.Devices}
	statsHandlers := &StatsHandlers{
		Svc:            services.Floor,
		StreamInterval: services.FloorStreamInterval,
	}

	registerJobRoutes(mux, jobHandlers)
	registerStationRoutes(mux, stationHandlers)
	registerDeviceRoutes(mux, deviceHandlers)
	registerStatsRoutes(mux, statsHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	ready := readyHandler(services.ReadyCheck)
	mux.Handle("GET /readyz", ready)
	mux.Handle("HEAD /readyz", ready)

	return mux
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	mux.HandleFunc("POST /api/jobs", h.CreateJob)
	mux.HandleFunc("GET /api/jobs/{id}", h.GetJob)
	mux.HandleFunc("POST /api/jobs/{id}/transition", h.Transition)
	mux.HandleFunc("POST /api/jobs/{id}/fail", h.Fail)
	mux.HandleFunc("POST /api/jobs/{id}/assign", h.Assign)
	mux.HandleFunc("PATCH /api/jobs/{id}/diagnostics", h.UpdateDiagnostics)
	mux.HandleFunc("DELETE /api/jobs/{id}", h.DeleteJob)
}

func registerStationRoutes(mux *http.ServeMux, h *StationHandlers) {
	mux.HandleFunc("POST /api/stations", h.Create)
	mux.HandleFunc("GET /api/stations", h.List)
	mux.HandleFunc("GET /api/stations/{id}", h.GetByID)
	mux.HandleFunc("POST /api/stations/{id}/deactivate", h.Deactivate)
}

func registerDeviceRoutes(mux *http.ServeMux, h *DeviceHandlers) {
	mux.HandleFunc("POST /api/devices", h.Create)
	mux.HandleFunc("GET /api/devices", h.List)
	mux.HandleFunc("GET /api/devices/{id}", h.GetByID)
}

func registerStatsRoutes(mux *http.ServeMux, h *StatsHandlers) {
	mux.HandleFunc("GET /api/stats/dashboard", h.Dashboard)
	mux.HandleFunc("GET /api/stats/floor", h.Floor)
	mux.HandleFunc("GET /api/stats/floor/stream", h.FloorStream)
	mux.HandleFunc("GET /api/stats/throughput", h.Throughput)
	mux.HandleFunc("GET /api/stats/technicians", h.Technicians)
}
