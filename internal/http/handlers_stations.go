package httpx

import (
	"errors"
	"net/http"

	"github.com/lowrester/Veriqko/internal/domain/model"
	"github.com/lowrester/Veriqko/internal/service"
)

// StationHandlers provides HTTP handlers for station management.
type StationHandlers struct {
	Svc *service.StationService
}

// Create handles HTTP requests to add a station to the floor.
func (h *StationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateStationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	station, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, station)
}

// GetByID handles HTTP requests to fetch a single station.
func (h *StationHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("station id is required")},
		)
		return
	}

	station, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, station)
}

// List handles HTTP requests to list stations. Pass active=true to hide
// retired stations.
func (h *StationHandlers) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	stations, err := h.Svc.List(r.Context(), activeOnly)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stations)
}

// Deactivate handles HTTP requests to retire a station.
func (h *StationHandlers) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("station id is required")},
		)
		return
	}

	deactivated, err := h.Svc.Deactivate(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deactivated": deactivated})
}
