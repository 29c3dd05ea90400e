package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/cw-dashboard/internal/core/domain"
	"github.com/lorrc/cw-dashboard/internal/core/ports"
)

// DashboardHandler serves the two aggregation views consumed by the
// dashboard front end. Each request performs its own full upstream
// retrieval; there is no cache between requests.
type DashboardHandler struct {
	staleView    ports.StaleViewBuilder
	closedTrend  ports.ClosedTrendBuilder
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	staleView ports.StaleViewBuilder,
	closedTrend ports.ClosedTrendBuilder,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		staleView:    staleView,
		closedTrend:  closedTrend,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "dashboard"),
	}
}

// RegisterRoutes sets up the routing for the dashboard endpoints.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stale-tickets", h.HandleStaleTickets)
	r.Get("/closed-by-user", h.HandleClosedByUser)
}

// staleTicketsError mirrors the success shape with empty collections so the
// front end can render the failure without special-casing missing fields.
type staleTicketsError struct {
	Error   string                    `json:"error"`
	Tickets []domain.NormalizedTicket `json:"tickets"`
	Count   int                       `json:"count"`
}

// HandleStaleTickets serves GET /api/stale-tickets
func (h *DashboardHandler) HandleStaleTickets(w http.ResponseWriter, r *http.Request) {
	view, err := h.staleView.Build(r.Context(), time.Now().UTC())
	if err != nil {
		status, message := h.errorHandler.Resolve(r, err)
		WriteJSON(w, status, staleTicketsError{
			Error:   message,
			Tickets: []domain.NormalizedTicket{},
			Count:   0,
		})
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// closedByUserError mirrors the closed-by-user success shape on failure.
type closedByUserError struct {
	Error string                    `json:"error"`
	Dates []string                  `json:"dates"`
	Users []domain.TechnicianSeries `json:"users"`
}

// HandleClosedByUser serves GET /api/closed-by-user
func (h *DashboardHandler) HandleClosedByUser(w http.ResponseWriter, r *http.Request) {
	trend, err := h.closedTrend.Build(r.Context(), time.Now().UTC())
	if err != nil {
		status, message := h.errorHandler.Resolve(r, err)
		WriteJSON(w, status, closedByUserError{
			Error: message,
			Dates: []string{},
			Users: []domain.TechnicianSeries{},
		})
		return
	}

	WriteJSON(w, http.StatusOK, trend)
}
