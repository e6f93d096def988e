// Package catalog enumerates the bookable time slots and table types of the
// venue.  The catalog is static for the lifetime of the process: lookups
// have no side effects and the only failure mode is "value not found".
package catalog

import (
	"fmt"
	"time"
)

// TableType describes one category of seating.  TotalCount is the number of
// physical tables of this type, i.e. the capacity of every
// (date, slot, type) bucket.
type TableType struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MinParty        int    `json:"min_party"`
	MaxParty        int    `json:"max_party"`
	PriceDeltaCents int    `json:"price_delta_cents"`
	TotalCount      int    `json:"total_count"`
}

// Options controls catalog construction.  Zero values fall back to the
// venue defaults used in production.
type Options struct {
	Open        string        // first bookable slot, e.g. "18:00"
	Close       string        // last bookable slot, e.g. "23:30"
	Interval    time.Duration // spacing between slots
	TableCounts map[string]int
}

// Catalog holds the ordered slot list and the table-type definitions.
type Catalog struct {
	slots    []string
	slotSet  map[string]struct{}
	types    []TableType
	typeByID map[string]TableType
}

// defaultTypes is the baseline seating inventory.  Counts can be overridden
// per type through Options.TableCounts.
func defaultTypes() []TableType {
	return []TableType{
		{ID: "standard", Name: "Standard", MinParty: 2, MaxParty: 6, PriceDeltaCents: 0, TotalCount: 10},
		{ID: "lounge", Name: "Lounge Sofa", MinParty: 2, MaxParty: 8, PriceDeltaCents: 1500, TotalCount: 6},
		{ID: "vip", Name: "VIP Booth", MinParty: 4, MaxParty: 12, PriceDeltaCents: 5000, TotalCount: 4},
		{ID: "outdoor", Name: "Terrace", MinParty: 2, MaxParty: 6, PriceDeltaCents: 0, TotalCount: 6},
	}
}

// New builds a catalog from the given options.  It returns an error when
// the operating window is malformed or empty.
func New(opts Options) (*Catalog, error) {
	if opts.Open == "" {
		opts.Open = "18:00"
	}
	if opts.Close == "" {
		opts.Close = "23:30"
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Minute
	}
	open, err := time.Parse("15:04", opts.Open)
	if err != nil {
		return nil, fmt.Errorf("invalid opening slot %q: %w", opts.Open, err)
	}
	closeAt, err := time.Parse("15:04", opts.Close)
	if err != nil {
		return nil, fmt.Errorf("invalid closing slot %q: %w", opts.Close, err)
	}
	if closeAt.Before(open) {
		return nil, fmt.Errorf("closing slot %q precedes opening slot %q", opts.Close, opts.Open)
	}

	c := &Catalog{
		slotSet:  make(map[string]struct{}),
		typeByID: make(map[string]TableType),
	}
	for t := open; !t.After(closeAt); t = t.Add(opts.Interval) {
		s := t.Format("15:04")
		c.slots = append(c.slots, s)
		c.slotSet[s] = struct{}{}
	}
	for _, tt := range defaultTypes() {
		if n, ok := opts.TableCounts[tt.ID]; ok && n > 0 {
			tt.TotalCount = n
		}
		c.types = append(c.types, tt)
		c.typeByID[tt.ID] = tt
	}
	return c, nil
}

// Default returns a catalog with the production defaults.  It cannot fail
// because the default window is well formed.
func Default() *Catalog {
	c, err := New(Options{})
	if err != nil {
		panic(err) // unreachable with default options
	}
	return c
}

// Slots returns the ordered list of bookable time values.
func (c *Catalog) Slots() []string {
	out := make([]string, len(c.slots))
	copy(out, c.slots)
	return out
}

// HasSlot reports whether t is a bookable time value.
func (c *Catalog) HasSlot(t string) bool {
	_, ok := c.slotSet[t]
	return ok
}

// TableTypes returns all table-type definitions in declaration order.
func (c *Catalog) TableTypes() []TableType {
	out := make([]TableType, len(c.types))
	copy(out, c.types)
	return out
}

// TableType looks up a type by id.
func (c *Catalog) TableType(id string) (TableType, bool) {
	tt, ok := c.typeByID[id]
	return tt, ok
}

// TotalTables returns the number of tables bookable in a single slot,
// summed across all table types.
func (c *Catalog) TotalTables() int {
	n := 0
	for _, tt := range c.types {
		n += tt.TotalCount
	}
	return n
}
