package config

import (
	"os"
	"strconv"
	"time"
)

// BookingConfig carries the tunables of the reservation engine.  The
// threshold and table-count defaults mirror the values the venue has been
// operating with; treat them as configuration, not business rules.
type BookingConfig struct {
	MaxPartySize       int            // hard upper bound on party size
	AvailableThreshold float64        // day is "available" above this remaining ratio
	LimitedThreshold   float64        // slot is "limited" at or below this ratio
	SlotOpen           string         // first bookable slot
	SlotClose          string         // last bookable slot
	SlotInterval       time.Duration  // spacing between slots
	TableCounts        map[string]int // per-type table count overrides
}

// LoadBookingConfig reads booking tunables from the environment, falling
// back to the operating defaults when variables are unset.
func LoadBookingConfig() BookingConfig {
	counts := map[string]int{}
	for id, key := range map[string]string{
		"standard": "TABLES_STANDARD",
		"lounge":   "TABLES_LOUNGE",
		"vip":      "TABLES_VIP",
		"outdoor":  "TABLES_OUTDOOR",
	} {
		if n := envInt(key, 0); n > 0 {
			counts[id] = n
		}
	}
	return BookingConfig{
		MaxPartySize:       envInt("MAX_PARTY_SIZE", 20),
		AvailableThreshold: envFloat("DAY_AVAILABLE_THRESHOLD", 0.60),
		LimitedThreshold:   envFloat("DAY_LIMITED_THRESHOLD", 0.30),
		SlotOpen:           envStr("SLOT_OPEN", "18:00"),
		SlotClose:          envStr("SLOT_CLOSE", "23:30"),
		SlotInterval:       envDur("SLOT_INTERVAL", 30*time.Minute),
		TableCounts:        counts,
	}
}

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return d
}
