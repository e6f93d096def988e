package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for reservation dates.
const DateLayout = "2006-01-02"

// SlotLayout is the wire format for slot times (24h clock, minutes).
const SlotLayout = "15:04"

// Reservation is a guest's booking of one table of a given type for a
// single (date, time) slot.  Reservations are never deleted; cancellation
// is a status, which keeps the historical record intact for reporting.
//
// Lifecycle timestamps are each written exactly once, by the transition
// that owns them: CreatedAt on insert, ConfirmedAt on confirm, ArrivedAt
// and CompletedAt on arrival, CancelledAt on cancel.  ReminderSentAt is a
// marker, not a lifecycle stamp, and may be refreshed by repeated
// reminders.
type Reservation struct {
	ID             uint64     `json:"id"`
	Code           string     `json:"code"`
	UserID         *uint64    `json:"user_id,omitempty"`
	GuestName      string     `json:"guest_name"`
	GuestEmail     string     `json:"guest_email"`
	GuestPhone     string     `json:"guest_phone"`
	PartySize      int        `json:"party_size"`
	TableType      string     `json:"table_type"`
	Date           string     `json:"date"` // YYYY-MM-DD
	Time           string     `json:"time"` // HH:MM slot value
	Occasion       *string    `json:"occasion,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	ArrivedAt      *time.Time `json:"arrived_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Bucket is the capacity-enforcement unit: all reservations sharing a
// (date, time, table type) triple compete for that type's table count.
type Bucket struct {
	Date      string
	Time      string
	TableType string
}

// Bucket returns the capacity bucket this reservation occupies.
func (r *Reservation) Bucket() Bucket {
	return Bucket{Date: r.Date, Time: r.Time, TableType: r.TableType}
}

// StartsAt combines the date and slot time into a single UTC instant.
func (r *Reservation) StartsAt() (time.Time, error) {
	t, err := time.Parse(DateLayout+" "+SlotLayout, r.Date+" "+r.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("reservation %d has malformed schedule: %w", r.ID, err)
	}
	return t.UTC(), nil
}
