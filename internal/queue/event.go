// Package queue defines message payloads exchanged over the message broker.
package queue

// NotifyQueueName is the durable queue carrying guest notification events.
const NotifyQueueName = "reservation.notify"

// EventKind names the lifecycle moment that triggered a notification.
type EventKind string

const (
	EventConfirmed EventKind = "confirmed"
	EventCancelled EventKind = "cancelled"
	EventReminder  EventKind = "reminder"
)

// ReservationEvent is published whenever a reservation transition warrants
// guest communication.  It carries enough context for downstream consumers
// (mailers, SMS gateways, analytics) to act without querying the primary
// database.
type ReservationEvent struct {
	Kind          EventKind `json:"kind"`
	ReservationID uint64    `json:"reservation_id"`
	Code          string    `json:"code"`
	GuestName     string    `json:"guest_name"`
	GuestEmail    string    `json:"guest_email"`
	GuestPhone    string    `json:"guest_phone"`
	PartySize     int       `json:"party_size"`
	TableType     string    `json:"table_type"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	OccurredAt    string    `json:"occurred_at"`
}
