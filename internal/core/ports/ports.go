package ports

import (
	"context"
	"time"

	"github.com/lorrc/cw-dashboard/internal/core/domain"
)

// TicketQuery describes one upstream collection query. The source is
// responsible for paging through the complete result set.
type TicketQuery struct {
	Conditions string
	Fields     string
	OrderBy    string
}

// TicketSource is the port to the upstream ticketing API. GetTickets
// returns the complete matching collection in upstream order, or an
// UpstreamError when any page fails.
type TicketSource interface {
	GetTickets(ctx context.Context, query TicketQuery) ([]domain.Ticket, error)
}

// StaleViewBuilder produces the owner-grouped stale-ticket view as of the
// given reference time.
type StaleViewBuilder interface {
	Build(ctx context.Context, now time.Time) (*domain.StaleView, error)
}

// ClosedTrendBuilder produces the trailing-window closure-trend view as of
// the given reference time.
type ClosedTrendBuilder interface {
	Build(ctx context.Context, now time.Time) (*domain.ClosedTrend, error)
}
