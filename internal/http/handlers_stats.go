package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lowrester/Veriqko/internal/service"
)

const (
	defaultFloorStreamInterval = 5 * time.Second
	defaultLeaderboardLimit    = 10
	maxLeaderboardLimit        = 100
)

// StatsHandlers provides HTTP handlers for floor and dashboard projections.
type StatsHandlers struct {
	Svc            *service.FloorService
	StreamInterval time.Duration // Optional: push cadence for the SSE stream
}

// Dashboard handles HTTP requests for the headline pipeline numbers.
func (h *StatsHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Dashboard(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// Floor handles HTTP requests for a one-shot floor board snapshot.
func (h *StatsHandlers) Floor(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Svc.Snapshot(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, snapshot)
}

// FloorStream pushes floor board snapshots over Server-Sent Events until
// the client disconnects. A snapshot is sent immediately on connect and
// then on every tick.
func (h *StatsHandlers) FloorStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "streaming_unsupported",
			Err:     errors.New("response writer does not support streaming"),
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	interval := h.StreamInterval
	if interval <= 0 {
		interval = defaultFloorStreamInterval
	}

	if !h.pushSnapshot(w, r, flusher) {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !h.pushSnapshot(w, r, flusher) {
				return
			}
		}
	}
}

// pushSnapshot writes one SSE frame. Returns false when the stream should
// end. Snapshot errors are reported in-band as an error event so the
// client can resubscribe rather than silently stalling.
func (h *StatsHandlers) pushSnapshot(w http.ResponseWriter, r *http.Request, flusher http.Flusher) bool {
	snapshot, err := h.Svc.Snapshot(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			return false
		}
		if _, werr := fmt.Fprintf(w, "event: error\ndata: %q\n\n", "snapshot failed"); werr != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return false
	}
	flusher.Flush()
	return true
}

// Throughput handles HTTP requests for per-phase dwell time averages.
// Accepts a days query param bounding the completion window.
func (h *StatsHandlers) Throughput(w http.ResponseWriter, r *http.Request) {
	days := parseIntQuery(r, "days", 0)
	report, err := h.Svc.Throughput(r.Context(), days)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// Technicians handles HTTP requests for the completion leaderboard.
// Accepts days and limit query params.
func (h *StatsHandlers) Technicians(w http.ResponseWriter, r *http.Request) {
	days := parseIntQuery(r, "days", 0)
	limit := parseIntQuery(r, "limit", defaultLeaderboardLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	standings, err := h.Svc.TechnicianLeaderboard(r.Context(), days, limit)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, standings)
}
