package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/RentalGo/internal/listing"
	"github.com/utafrali/RentalGo/internal/service"
	"github.com/utafrali/RentalGo/pkg/httputil"
)

// viewHeader carries the snapshot id so API clients can filter the same list
// again without a refetch.
const viewHeader = "X-View-ID"

// VehicleAPIHandler serves the JSON mirror of the vehicle pages.
type VehicleAPIHandler struct {
	vehicles *service.VehicleService
	logger   *slog.Logger
}

// NewVehicleAPIHandler creates a new vehicle API handler.
func NewVehicleAPIHandler(vehicles *service.VehicleService, logger *slog.Logger) *VehicleAPIHandler {
	return &VehicleAPIHandler{vehicles: vehicles, logger: logger}
}

// ListVehicles handles GET /api/v1/vehicles?view=&color=&sort=&q=
func (h *VehicleAPIHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	viewID, snap, err := h.vehicles.Snapshot(r.Context(), q.Get("view"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set(viewHeader, viewID)
	httputil.WriteJSON(w, http.StatusOK, httputil.NewListResponse(snap.Apply(listing.ParseFilter(q))))
}

// Stats handles GET /api/v1/vehicles/stats. An empty catalog has no stats and
// answers 204.
func (h *VehicleAPIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	viewID, snap, err := h.vehicles.Snapshot(r.Context(), r.URL.Query().Get("view"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set(viewHeader, viewID)
	stats, ok := listing.Summarize(snap.Vehicles())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// GetVehicle handles GET /api/v1/vehicles/{id}
func (h *VehicleAPIHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseIntParam(w, "id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	v, err := h.vehicles.Vehicle(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: v})
}
