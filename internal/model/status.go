package model

import "strings"

// Status is the lifecycle state of a reservation.  The set is closed:
// transitions are validated through CanTransitionTo and nowhere else, so
// callers cannot move a reservation between arbitrary states.
type Status string

const (
	StatusPending   Status = "PENDING"   // created, awaiting staff confirmation
	StatusConfirmed Status = "CONFIRMED" // confirmed by staff, guest expected
	StatusCompleted Status = "COMPLETED" // guest arrived and was seated
	StatusNoShow    Status = "NO_SHOW"   // guest never arrived
	StatusCancelled Status = "CANCELLED" // cancelled by guest or staff
)

// allStatuses lists every state in declaration order.
var allStatuses = []Status{
	StatusPending, StatusConfirmed, StatusCompleted, StatusNoShow, StatusCancelled,
}

// transitions maps each state to the states reachable from it.  Terminal
// states have no entries.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled},
}

// ParseStatus converts a raw string into a Status.  Matching is
// case-insensitive; the second return value reports whether the input
// named a known state.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(s))
	for _, known := range allStatuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// Terminal reports whether no further transitions are permitted from s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Active reports whether the reservation still occupies a table in its
// bucket.  Only cancelled reservations release capacity; completed and
// no-show reservations keep counting against their (past) slot.
func (s Status) Active() bool {
	return s != StatusCancelled
}

// CapacityHolding returns, in declaration order, the statuses that count
// against bucket capacity.  Store queries build their status filters from
// this list so the capacity rule has a single definition.
func CapacityHolding() []Status {
	out := make([]Status, 0, len(allStatuses))
	for _, s := range allStatuses {
		if s.Active() {
			out = append(out, s)
		}
	}
	return out
}
