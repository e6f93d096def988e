// Package booking orchestrates the reservation lifecycle.  All status
// mutations in the system go through this service: it validates requests
// against the catalog, drives the pending → confirmed → completed/no-show
// state machine with cancellation from either live state, and emits
// notification events after transitions commit.
package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/duskbar/table-reservation/internal/catalog"
	"github.com/duskbar/table-reservation/internal/model"
	"github.com/duskbar/table-reservation/internal/queue"
	"github.com/duskbar/table-reservation/internal/repository"
)

// Store is the persistence surface the orchestrator requires.  The MySQL
// repository implements it; tests substitute an in-memory fake.  The
// contract on CreateWithCapacity is the load-bearing one: the capacity
// claim and the insert must be a single atomic unit, and the
// repository.ErrNoCapacity sentinel signals a lost race for the last table.
type Store interface {
	CreateWithCapacity(ctx context.Context, res *model.Reservation, totalTables int) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	Transition(ctx context.Context, id uint64, from, to model.Status, at time.Time) error
	CancelAndRelease(ctx context.Context, res *model.Reservation, at time.Time) error
	MarkReminded(ctx context.Context, id uint64, at time.Time) error
}

// Notifier dispatches guest communication.  Implementations must be safe
// for concurrent use; failures are logged, never propagated to callers.
type Notifier interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// Config carries the orchestrator's validation tunables.
type Config struct {
	MaxPartySize int
}

// Service drives the reservation lifecycle.
type Service struct {
	catalog  *catalog.Catalog
	store    Store
	notifier Notifier
	cfg      Config
	now      func() time.Time
}

// NewService constructs a Service.  notifier may be nil, in which case no
// events are published.
func NewService(cat *catalog.Catalog, store Store, notifier Notifier, cfg Config) *Service {
	if cfg.MaxPartySize <= 0 {
		cfg.MaxPartySize = 20
	}
	return &Service{catalog: cat, store: store, notifier: notifier, cfg: cfg, now: time.Now}
}

// CreateRequest is a booking request as received from the presentation
// layer.  UserID is attached by the identity middleware when the guest is
// authenticated and is treated as opaque.
type CreateRequest struct {
	UserID     *uint64
	GuestName  string
	GuestEmail string
	GuestPhone string
	PartySize  int
	TableType  string
	Date       string
	Time       string
	Occasion   string
	Notes      string
}

// Create validates the request and inserts a pending reservation, claiming
// one table from the (date, time, table type) bucket atomically with the
// insert.  When two requests race for the last table, whichever claim
// commits first wins; the loser gets ErrCapacityExceeded and the client is
// expected to offer alternate slots.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	res := &model.Reservation{
		UserID:     req.UserID,
		GuestName:  strings.TrimSpace(req.GuestName),
		GuestEmail: strings.TrimSpace(req.GuestEmail),
		GuestPhone: strings.TrimSpace(req.GuestPhone),
		PartySize:  req.PartySize,
		TableType:  req.TableType,
		Date:       req.Date,
		Time:       req.Time,
		Status:     model.StatusPending,
	}
	if v := strings.TrimSpace(req.Occasion); v != "" {
		res.Occasion = &v
	}
	if v := strings.TrimSpace(req.Notes); v != "" {
		res.Notes = &v
	}

	// Same-day bookings are fine, but not for a slot that already started.
	startsAt, err := res.StartsAt()
	if err != nil || startsAt.Before(s.now().UTC()) {
		return nil, ErrInvalidSlot
	}

	tt, _ := s.catalog.TableType(req.TableType)

	// A fresh code is generated on collision; with 8 hex chars collisions
	// are vanishingly rare, so three attempts is plenty.
	for attempt := 0; attempt < 3; attempt++ {
		code, err := newCode()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		res.Code = code
		err = s.store.CreateWithCapacity(ctx, res, tt.TotalCount)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		return nil, s.storeErr(err)
	}
	return nil, fmt.Errorf("%w: could not allocate confirmation code", ErrStorageUnavailable)
}

// Confirm moves a pending reservation to confirmed and notifies the guest.
func (s *Service) Confirm(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.transition(ctx, id, model.StatusConfirmed, queue.EventConfirmed)
}

// MarkArrived records the guest's arrival, completing the reservation.
// Arrival is the completion signal: the walk-in flow has no intermediate
// seated state.
func (s *Service) MarkArrived(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.transition(ctx, id, model.StatusCompleted, "")
}

// MarkNoShow closes out a confirmed reservation whose guest never arrived.
func (s *Service) MarkNoShow(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.transition(ctx, id, model.StatusNoShow, "")
}

// Cancel cancels a pending or confirmed reservation.  The bucket's
// capacity is released in the same transaction, so a create for the same
// bucket issued right after Cancel returns will see the freed table.
func (s *Service) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if !res.Status.CanTransitionTo(model.StatusCancelled) {
		return nil, ErrInvalidTransition
	}
	if err := s.store.CancelAndRelease(ctx, res, s.now()); err != nil {
		return nil, s.storeErr(err)
	}
	res, err = s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}
	s.notifyAsync(queue.EventCancelled, res)
	return res, nil
}

// SendReminder publishes a reminder event for a confirmed reservation and
// refreshes the reminder marker.  The reservation state is otherwise
// untouched.
func (s *Service) SendReminder(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if res.Status != model.StatusConfirmed {
		return nil, ErrInvalidTransition
	}
	if err := s.store.MarkReminded(ctx, id, s.now()); err != nil {
		return nil, s.storeErr(err)
	}
	res, err = s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}
	s.notifyAsync(queue.EventReminder, res)
	return res, nil
}

// transition performs a guarded status move.  The store re-checks the
// expected current status at commit time, so a concurrent transition on
// the same reservation cannot be overwritten.
func (s *Service) transition(ctx context.Context, id uint64, to model.Status, event queue.EventKind) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if !res.Status.CanTransitionTo(to) {
		return nil, ErrInvalidTransition
	}
	if err := s.store.Transition(ctx, id, res.Status, to, s.now()); err != nil {
		return nil, s.storeErr(err)
	}
	res, err = s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if event != "" {
		s.notifyAsync(event, res)
	}
	return res, nil
}

func (s *Service) validate(req CreateRequest) error {
	if strings.TrimSpace(req.GuestName) == "" ||
		strings.TrimSpace(req.GuestEmail) == "" ||
		strings.TrimSpace(req.GuestPhone) == "" {
		return fmt.Errorf("%w: missing contact fields", ErrValidationFailed)
	}
	if req.PartySize < 1 || req.PartySize > s.cfg.MaxPartySize {
		return fmt.Errorf("%w: party size out of range", ErrValidationFailed)
	}
	day, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		return ErrInvalidSlot
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		return ErrInvalidSlot
	}
	if !s.catalog.HasSlot(req.Time) {
		return ErrInvalidSlot
	}
	tt, ok := s.catalog.TableType(req.TableType)
	if !ok {
		return ErrInvalidSlot
	}
	if req.PartySize < tt.MinParty || req.PartySize > tt.MaxParty {
		return fmt.Errorf("%w: party size outside %s range", ErrValidationFailed, tt.ID)
	}
	return nil
}

// notifyAsync publishes after the transition has committed.  Dispatch runs
// in the background with its own deadline; failures are logged and never
// surface to the caller, because the reservation's correctness does not
// depend on notification delivery.
func (s *Service) notifyAsync(kind queue.EventKind, res *model.Reservation) {
	if s.notifier == nil {
		return
	}
	ev := queue.ReservationEvent{
		Kind:          kind,
		ReservationID: res.ID,
		Code:          res.Code,
		GuestName:     res.GuestName,
		GuestEmail:    res.GuestEmail,
		GuestPhone:    res.GuestPhone,
		PartySize:     res.PartySize,
		TableType:     res.TableType,
		Date:          res.Date,
		Time:          res.Time,
		OccurredAt:    s.now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.Publish(ctx, ev); err != nil {
			logrus.WithError(err).WithField("reservation_id", ev.ReservationID).
				Warn("notification dispatch failed")
		}
	}()
}

// storeErr folds repository sentinels into the published error kinds and
// wraps anything else as a storage failure.
func (s *Service) storeErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrReservationNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrNoCapacity):
		return ErrCapacityExceeded
	case errors.Is(err, repository.ErrNoChange):
		return ErrInvalidTransition
	default:
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
}

// newCode builds a short guest-facing confirmation code, e.g. RSV-5FA21C0D.
func newCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "RSV-" + strings.ToUpper(hex.EncodeToString(b)), nil
}
