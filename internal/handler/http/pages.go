package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/utafrali/RentalGo/internal/listing"
	"github.com/utafrali/RentalGo/internal/service"
	"github.com/utafrali/RentalGo/internal/view"
	"github.com/utafrali/RentalGo/pkg/httputil"
	"github.com/utafrali/RentalGo/pkg/middleware"
)

// PageHandler serves the server-rendered pages, their htmx fragments and the
// form posts.
type PageHandler struct {
	htmlRenderer
	vehicles           *service.VehicleService
	bookings           *service.BookingService
	accounts           *service.AccountService
	contact            *service.ContactService
	loginRedirectDelay time.Duration
}

// NewPageHandler creates a new page handler.
func NewPageHandler(svc Services, views *view.Renderer, logger *slog.Logger, loginRedirectDelay time.Duration) *PageHandler {
	return &PageHandler{
		htmlRenderer:       htmlRenderer{views: views, logger: logger},
		vehicles:           svc.Vehicles,
		bookings:           svc.Bookings,
		accounts:           svc.Accounts,
		contact:            svc.Contact,
		loginRedirectDelay: loginRedirectDelay,
	}
}

// basePage fills the layout fields shared by every page.
func (h *PageHandler) basePage(r *http.Request, title, nav string) view.Page {
	p := view.Page{Title: title, Nav: nav}
	if visitorID := middleware.VisitorID(r); visitorID != "" {
		p.User = h.accounts.CurrentUser(r.Context(), visitorID)
	}
	return p
}

// Home handles GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	vehicles := h.vehicles.Teaser(r.Context())
	if isHTMX(r) {
		h.fragment(w, r, http.StatusOK, view.FragmentTeaser, vehicles)
		return
	}

	p := h.basePage(r, "Home", view.PageHome)
	p.Body = view.HomeBody{Vehicles: vehicles}
	h.page(w, r, http.StatusOK, view.PageHome, p)
}

// Vehicles handles GET /vehicles
func (h *PageHandler) Vehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	grid := h.vehicles.Grid(r.Context(), q.Get("view"), listing.ParseFilter(q))
	if isHTMX(r) {
		h.fragment(w, r, http.StatusOK, view.FragmentGrid, grid)
		return
	}

	p := h.basePage(r, "Vehicles", view.PageVehicles)
	p.Body = view.VehiclesBody{Grid: grid, Pickup: q.Get("pickup"), Drop: q.Get("drop")}
	h.page(w, r, http.StatusOK, view.PageVehicles, p)
}

// Grid handles GET /vehicles/grid, the filter controls' fragment endpoint.
func (h *PageHandler) Grid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	grid := h.vehicles.Grid(r.Context(), q.Get("view"), listing.ParseFilter(q))
	h.fragment(w, r, http.StatusOK, view.FragmentGrid, grid)
}

// Details handles GET /details?id= (or ?vehicleId=).
func (h *PageHandler) Details(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("id")
	if id == "" {
		id = q.Get("vehicleId")
	}

	detail := h.vehicles.Detail(r.Context(), id)
	if isHTMX(r) {
		h.fragment(w, r, http.StatusOK, view.FragmentVehicleDetail, detail)
		return
	}

	title := "Vehicle details"
	if detail.Vehicle != nil {
		title = detail.Vehicle.Name
	}
	p := h.basePage(r, title, view.PageVehicles)
	p.Body = detail
	h.page(w, r, http.StatusOK, view.PageDetails, p)
}

// NotFound renders the 404 page, or the JSON envelope under /api/.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "route not found"},
		})
		return
	}

	p := h.basePage(r, "Not found", "")
	p.Body = view.ErrorBody{Status: http.StatusNotFound, Message: "Page not found."}
	h.page(w, r, http.StatusNotFound, view.PageError, p)
}
