// Package availability computes remaining capacity per slot and classifies
// slots and days for calendar display.  Everything here is a pure read over
// the reservation store: the engine never writes, and calling it twice with
// no intervening bookings yields identical results.
package availability

import (
	"context"
	"time"

	"github.com/duskbar/table-reservation/internal/catalog"
	"github.com/duskbar/table-reservation/internal/model"
)

// Store is the read surface the engine needs from the reservation store.
type Store interface {
	CountActiveByDate(ctx context.Context, date string) (map[model.Bucket]int, error)
}

// Level classifies how much capacity remains in a slot or day.
type Level string

const (
	LevelAvailable Level = "available"
	LevelLimited   Level = "limited"
	LevelFull      Level = "full"
	LevelUnknown   Level = "unknown"
)

// Thresholds are the remaining-capacity ratios the classification uses.
// Defaults match the venue's operating configuration (0.60 / 0.30).
type Thresholds struct {
	Available float64 // day is "available" when max remaining ratio exceeds this
	Limited   float64 // slot is "limited" at or below this ratio
}

// SlotAvailability is one row of the calendar view: remaining and total
// table counts for a slot, summed across table types.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available int    `json:"available"`
	Total     int    `json:"total"`
	Status    Level  `json:"status"`
}

// Engine derives availability signals from the catalog and the store.
type Engine struct {
	catalog *catalog.Catalog
	store   Store
	th      Thresholds
}

// NewEngine builds an Engine.  Threshold zero values fall back to the
// operating defaults.
func NewEngine(cat *catalog.Catalog, store Store, th Thresholds) *Engine {
	if th.Available <= 0 {
		th.Available = 0.60
	}
	if th.Limited <= 0 {
		th.Limited = 0.30
	}
	return &Engine{catalog: cat, store: store, th: th}
}

// SlotsForDate returns per-slot remaining capacity for a calendar date.
// Past dates are computable; a catalog with no slots yields an empty list.
func (e *Engine) SlotsForDate(ctx context.Context, date string) ([]SlotAvailability, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, err
	}
	slots := e.catalog.Slots()
	out := make([]SlotAvailability, 0, len(slots))
	if len(slots) == 0 {
		return out, nil
	}
	counts, err := e.store.CountActiveByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	total := e.catalog.TotalTables()
	for _, slot := range slots {
		taken := 0
		for _, tt := range e.catalog.TableTypes() {
			taken += counts[model.Bucket{Date: date, Time: slot, TableType: tt.ID}]
		}
		avail := total - taken
		if avail < 0 {
			avail = 0
		}
		out = append(out, SlotAvailability{
			Time:      slot,
			Available: avail,
			Total:     total,
			Status:    e.classifySlot(avail, total),
		})
	}
	return out, nil
}

// DayStatus condenses a whole date into one calendar signal based on the
// best remaining slot: above the available threshold the day is open,
// anything left at all means limited, and zero across every slot means full.
// Unknown is reserved for a catalog with no configured slots.
func (e *Engine) DayStatus(ctx context.Context, date string) (Level, error) {
	slots, err := e.SlotsForDate(ctx, date)
	if err != nil {
		return LevelUnknown, err
	}
	if len(slots) == 0 {
		return LevelUnknown, nil
	}
	best := 0
	total := slots[0].Total
	for _, s := range slots {
		if s.Available > best {
			best = s.Available
		}
	}
	switch {
	case total <= 0 || best == 0:
		return LevelFull, nil
	case float64(best)/float64(total) > e.th.Available:
		return LevelAvailable, nil
	default:
		return LevelLimited, nil
	}
}

// classifySlot grades a single slot.  A slot at or below the limited
// threshold is flagged so the calendar can warn guests before it fills.
func (e *Engine) classifySlot(avail, total int) Level {
	switch {
	case total <= 0 || avail == 0:
		return LevelFull
	case float64(avail)/float64(total) <= e.th.Limited:
		return LevelLimited
	default:
		return LevelAvailable
	}
}
