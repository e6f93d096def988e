// Package reporting derives admin dashboard aggregates from the
// reservation store.  Everything here is read-only.
package reporting

import (
	"context"
	"time"

	"github.com/duskbar/table-reservation/internal/model"
	"github.com/duskbar/table-reservation/internal/repository"
)

// Store is the read surface the aggregator needs.
type Store interface {
	List(ctx context.Context, f repository.ListFilter) ([]model.Reservation, error)
}

// Filters narrows the aggregation the same way the admin list view does.
type Filters struct {
	Status *model.Status
	Date   string
	Search string
}

// Stats is the aggregate view consumed by the admin dashboard.  The
// completion rate is completed / (completed + no_show + cancelled),
// restricted to reservations whose date has already passed; bookings still
// in the future say nothing about show-up behaviour yet.
type Stats struct {
	Total          int                  `json:"total"`
	ByStatus       map[model.Status]int `json:"by_status"`
	CompletionRate float64              `json:"completion_rate"`
}

// Aggregator computes Stats over a trailing window.
type Aggregator struct {
	store Store
	now   func() time.Time
}

// NewAggregator builds an Aggregator backed by the given store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// Stats aggregates reservations whose date falls inside the trailing
// window of windowDays days (today included).  When nothing matches it
// returns zero-valued aggregates, not an error.
func (a *Aggregator) Stats(ctx context.Context, windowDays int, f Filters) (*Stats, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	today := a.now().UTC().Truncate(24 * time.Hour)
	// windowDays calendar days ending today: a 7-day window starts 6 days back.
	from := today.AddDate(0, 0, -(windowDays - 1)).Format(model.DateLayout)

	list, err := a.store.List(ctx, repository.ListFilter{
		Status:   f.Status,
		Date:     f.Date,
		Search:   f.Search,
		FromDate: from,
	})
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByStatus: make(map[model.Status]int)}
	completed, closedOut := 0, 0
	todayStr := today.Format(model.DateLayout)
	for _, res := range list {
		stats.Total++
		stats.ByStatus[res.Status]++
		if res.Date >= todayStr {
			continue // future or today: outcome not yet known
		}
		switch res.Status {
		case model.StatusCompleted:
			completed++
			closedOut++
		case model.StatusNoShow, model.StatusCancelled:
			closedOut++
		}
	}
	if closedOut > 0 {
		stats.CompletionRate = float64(completed) / float64(closedOut)
	}
	return stats, nil
}
