package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/lorrc/cw-dashboard/internal/core/domain"
	"github.com/lorrc/cw-dashboard/internal/core/ports"
)

// conditionTimeLayout is the timestamp format ConnectWise accepts inside
// condition expressions.
const conditionTimeLayout = "2006-01-02T15:04:05Z"

const staleTicketFields = "id,summary,status,owner,board,priority,lastUpdated,company,parentTicketId,closedFlag"

// StaleViewConfig is the immutable per-deployment tuning of the stale view,
// loaded once and passed in explicitly so the service stays testable with
// injected configurations.
type StaleViewConfig struct {
	CutoffHours        int
	ClosedStatuses     domain.NameSet
	ExcludedPriorities domain.NameSet
	CriticalHours      float64
	WarningHours       float64
	TopOldestCount     int
}

// StaleTicketService builds the owner-grouped view of open tickets that
// have not been touched within the configured cutoff.
type StaleTicketService struct {
	source ports.TicketSource
	cfg    StaleViewConfig
	logger *slog.Logger
}

var _ ports.StaleViewBuilder = (*StaleTicketService)(nil)

// NewStaleTicketService creates a new stale-ticket view builder.
func NewStaleTicketService(source ports.TicketSource, cfg StaleViewConfig, logger *slog.Logger) *StaleTicketService {
	return &StaleTicketService{
		source: source,
		cfg:    cfg,
		logger: logger.With("service", "stale_tickets"),
	}
}

// Build retrieves every matching ticket and produces the ranked view as of
// now. The upstream query already excludes closed tickets and sub-tickets;
// the same checks are re-applied client-side because the upstream closed
// flag and status name do not always agree.
func (s *StaleTicketService) Build(ctx context.Context, now time.Time) (*domain.StaleView, error) {
	cutoff := now.Add(-time.Duration(s.cfg.CutoffHours) * time.Hour)

	query := ports.TicketQuery{
		Conditions: fmt.Sprintf(
			"closedFlag = false and parentTicketId = null and lastUpdated < [%s]",
			cutoff.UTC().Format(conditionTimeLayout),
		),
		Fields:  staleTicketFields,
		OrderBy: "lastUpdated asc",
	}

	raw, err := s.source.GetTickets(ctx, query)
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.NormalizedTicket, 0, len(raw))
	for i := range raw {
		t := &raw[i]
		if t.HasParent() {
			continue
		}
		n := t.Normalize(now)
		if n.IsClosed(s.cfg.ClosedStatuses) {
			continue
		}
		if s.cfg.ExcludedPriorities.Contains(n.Priority) {
			continue
		}
		tickets = append(tickets, n)
	}

	view := &domain.StaleView{
		Tickets:   tickets,
		Owners:    s.groupByOwner(tickets),
		TopOldest: s.topOldest(tickets),
		Count:     len(tickets),
		AsOf:      now.UTC().Format(time.RFC3339),
	}

	s.logger.Info("stale view built",
		"retrieved", len(raw),
		"kept", len(tickets),
		"owners", len(view.Owners),
	)
	return view, nil
}

// groupByOwner buckets tickets by owner, preserving retrieval order inside
// each group, and ranks groups by their stalest known ticket. Groups whose
// tickets all have unknown staleness keep first-appearance order at the
// end of the ranking.
func (s *StaleTicketService) groupByOwner(tickets []domain.NormalizedTicket) []domain.OwnerGroup {
	groups := make([]domain.OwnerGroup, 0)
	index := make(map[string]int)
	maxStale := make(map[string]float64)

	for _, t := range tickets {
		i, ok := index[t.Owner]
		if !ok {
			i = len(groups)
			index[t.Owner] = i
			groups = append(groups, domain.OwnerGroup{
				Name:    t.Owner,
				Tickets: make([]domain.NormalizedTicket, 0, 4),
			})
			maxStale[t.Owner] = -1
		}

		groups[i].Tickets = append(groups[i].Tickets, t)
		if t.HoursStale == nil {
			continue
		}
		if *t.HoursStale >= s.cfg.CriticalHours {
			groups[i].Critical++
		} else if *t.HoursStale >= s.cfg.WarningHours {
			groups[i].Warning++
		}
		if *t.HoursStale > maxStale[t.Owner] {
			maxStale[t.Owner] = *t.HoursStale
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return maxStale[groups[i].Name] > maxStale[groups[j].Name]
	})
	return groups
}

// topOldest returns the N stalest tickets across all owners. Tickets with
// unknown staleness rank below every known one.
func (s *StaleTicketService) topOldest(tickets []domain.NormalizedTicket) []domain.NormalizedTicket {
	ranked := make([]domain.NormalizedTicket, len(tickets))
	copy(ranked, tickets)

	sort.SliceStable(ranked, func(i, j int) bool {
		hi, hj := ranked[i].HoursStale, ranked[j].HoursStale
		if hi == nil {
			return false
		}
		if hj == nil {
			return true
		}
		return *hi > *hj
	})

	if len(ranked) > s.cfg.TopOldestCount {
		ranked = ranked[:s.cfg.TopOldestCount]
	}
	return ranked
}
