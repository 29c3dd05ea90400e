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

const (
	dateLayout        = "2006-01-02"
	closedByFields    = "id,owner,lastUpdated,closedBy"
	windowStartLayout = "2006-01-02T00:00:00Z"
)

// TrendConfig is the immutable tuning of the closure-trend view.
type TrendConfig struct {
	WindowDays int
}

// ClosedTrendService builds the per-technician daily closure series over a
// trailing window of calendar days, inclusive of today.
type ClosedTrendService struct {
	source ports.TicketSource
	cfg    TrendConfig
	logger *slog.Logger
}

var _ ports.ClosedTrendBuilder = (*ClosedTrendService)(nil)

// NewClosedTrendService creates a new closure-trend view builder.
func NewClosedTrendService(source ports.TicketSource, cfg TrendConfig, logger *slog.Logger) *ClosedTrendService {
	return &ClosedTrendService{
		source: source,
		cfg:    cfg,
		logger: logger.With("service", "closed_trend"),
	}
}

// Build retrieves the window's closed tickets and buckets them by the UTC
// calendar date of their last update. The upstream closed flag is trusted
// here; the stale view's redundant status check has no equivalent on this
// path.
func (s *ClosedTrendService) Build(ctx context.Context, now time.Time) (*domain.ClosedTrend, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(s.cfg.WindowDays - 1))

	query := ports.TicketQuery{
		Conditions: fmt.Sprintf(
			"closedFlag = true and lastUpdated >= [%s] and lastUpdated <= [%s]",
			start.Format(windowStartLayout),
			now.Format(conditionTimeLayout),
		),
		Fields:  closedByFields,
		OrderBy: "lastUpdated desc",
	}

	raw, err := s.source.GetTickets(ctx, query)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, s.cfg.WindowDays)
	inWindow := make(map[string]struct{}, s.cfg.WindowDays)
	for i := 0; i < s.cfg.WindowDays; i++ {
		d := start.AddDate(0, 0, i).Format(dateLayout)
		dates = append(dates, d)
		inWindow[d] = struct{}{}
	}

	counts := make(map[string]map[string]int)
	for i := range raw {
		t := &raw[i]
		closedAt, ok := domain.ParseLastUpdated(t.LastUpdated)
		if !ok {
			continue
		}
		day := closedAt.Format(dateLayout)
		// Clock skew between the query and the response can push a record
		// outside the canonical window; dropping it keeps the series at a
		// fixed length.
		if _, ok := inWindow[day]; !ok {
			continue
		}
		owner := t.Owner.Name(domain.UnassignedOwner)
		if counts[owner] == nil {
			counts[owner] = make(map[string]int)
		}
		counts[owner][day]++
	}

	users := make([]domain.TechnicianSeries, 0, len(counts))
	for name, byDay := range counts {
		daily := make([]int, len(dates))
		total := 0
		for i, d := range dates {
			daily[i] = byDay[d]
			total += byDay[d]
		}
		users = append(users, domain.TechnicianSeries{
			Name:  name,
			Daily: daily,
			Total: total,
		})
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].Total != users[j].Total {
			return users[i].Total > users[j].Total
		}
		return users[i].Name < users[j].Name
	})

	trend := &domain.ClosedTrend{
		Dates: dates,
		Users: users,
		AsOf:  now.Format(time.RFC3339),
	}

	s.logger.Info("closed trend built",
		"retrieved", len(raw),
		"technicians", len(users),
		"window_days", s.cfg.WindowDays,
	)
	return trend, nil
}
