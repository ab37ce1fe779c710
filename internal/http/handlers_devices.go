package httpx

import (
	"errors"
	"net/http"

	"github.com/lowrester/Veriqko/internal/domain/model"
	"github.com/lowrester/Veriqko/internal/service"
)

const (
	defaultDeviceListLimit = 50
	maxDeviceListLimit     = 1000
)

// DeviceHandlers provides HTTP handlers for the device catalog.
type DeviceHandlers struct {
	Svc *service.DeviceService
}

// Create handles HTTP requests to add a device model.
func (h *DeviceHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDeviceRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	device, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, device)
}

// GetByID handles HTTP requests to fetch a single device model.
func (h *DeviceHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("device id is required")},
		)
		return
	}

	device, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, device)
}

// List handles HTTP requests to page through the device catalog.
func (h *DeviceHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultDeviceListLimit, maxDeviceListLimit)

	devices, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, devices)
}
