package http_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/lorrc/cw-dashboard/internal/adapters/primary/http"
	"github.com/lorrc/cw-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/cw-dashboard/internal/core/errors"
	"github.com/lorrc/cw-dashboard/internal/core/mocks"
)

func newDashboardRouter(stale *mocks.MockStaleViewBuilder, trend *mocks.MockClosedTrendBuilder) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := httpAdapter.NewDashboardHandler(stale, trend, httpAdapter.NewErrorHandler(logger), logger)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return r
}

func TestDashboardHandler_HandleStaleTickets(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		hours := 12.5
		view := &domain.StaleView{
			Tickets: []domain.NormalizedTicket{
				{ID: 1, Owner: "Alice Admin", Status: "New", HoursStale: &hours},
			},
			Owners: []domain.OwnerGroup{
				{Name: "Alice Admin", Tickets: []domain.NormalizedTicket{{ID: 1}}},
			},
			TopOldest: []domain.NormalizedTicket{{ID: 1}},
			Count:     1,
			AsOf:      "2024-03-15T12:00:00Z",
		}

		stale := mocks.NewMockStaleViewBuilder()
		stale.On("Build", mock.Anything, mock.Anything).Return(view, nil)

		router := newDashboardRouter(stale, mocks.NewMockClosedTrendBuilder())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stale-tickets", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body struct {
			Tickets []domain.NormalizedTicket `json:"tickets"`
			Count   int                       `json:"count"`
			AsOf    string                    `json:"asOf"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
		require.Len(t, body.Tickets, 1)
		require.NotNil(t, body.Tickets[0].HoursStale)
		assert.Equal(t, 12.5, *body.Tickets[0].HoursStale)
		assert.Equal(t, "2024-03-15T12:00:00Z", body.AsOf)
	})

	t.Run("upstream auth failure surfaces as error payload", func(t *testing.T) {
		stale := mocks.NewMockStaleViewBuilder()
		stale.On("Build", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewProtocolError("/service/tickets", http.StatusUnauthorized, nil))

		router := newDashboardRouter(stale, mocks.NewMockClosedTrendBuilder())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stale-tickets", nil))

		require.Equal(t, http.StatusBadGateway, rec.Code)

		var body struct {
			Error   string                    `json:"error"`
			Tickets []domain.NormalizedTicket `json:"tickets"`
			Count   int                       `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Error, "401")
		assert.NotNil(t, body.Tickets)
		assert.Empty(t, body.Tickets)
		assert.Zero(t, body.Count)
	})
}

func TestDashboardHandler_HandleClosedByUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		trendView := &domain.ClosedTrend{
			Dates: []string{"2024-03-09", "2024-03-10", "2024-03-11", "2024-03-12", "2024-03-13", "2024-03-14", "2024-03-15"},
			Users: []domain.TechnicianSeries{
				{Name: "Alice Admin", Daily: []int{1, 0, 0, 0, 0, 0, 2}, Total: 3},
			},
			AsOf: "2024-03-15T12:00:00Z",
		}

		trend := mocks.NewMockClosedTrendBuilder()
		trend.On("Build", mock.Anything, mock.Anything).Return(trendView, nil)

		router := newDashboardRouter(mocks.NewMockStaleViewBuilder(), trend)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/closed-by-user", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body domain.ClosedTrend
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Dates, 7)
		require.Len(t, body.Users, 1)
		assert.Equal(t, 3, body.Users[0].Total)
	})

	t.Run("failure mirrors the success shape", func(t *testing.T) {
		trend := mocks.NewMockClosedTrendBuilder()
		trend.On("Build", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewTransportError("/service/tickets", assert.AnError))

		router := newDashboardRouter(mocks.NewMockStaleViewBuilder(), trend)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/closed-by-user", nil))

		require.Equal(t, http.StatusBadGateway, rec.Code)

		var body struct {
			Error string   `json:"error"`
			Dates []string `json:"dates"`
			Users []any    `json:"users"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Error)
		assert.NotNil(t, body.Dates)
		assert.Empty(t, body.Dates)
		assert.Empty(t, body.Users)
	})
}
