package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskbar/table-reservation/internal/model"
)

var reservationCols = []string{
	"id", "code", "user_id", "guest_name", "guest_email", "guest_phone",
	"party_size", "table_type", "res_date", "res_time",
	"occasion", "notes", "status", "created_at", "confirmed_at", "arrived_at",
	"completed_at", "cancelled_at", "reminder_sent_at", "updated_at",
}

func pendingRow(id int64, code string) *sqlmock.Rows {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(reservationCols).AddRow(
		id, code, nil, "Ada Moreno", "ada@example.com", "+34600111222",
		4, "standard", "2026-09-12", "20:00",
		nil, nil, "PENDING", now, nil, nil,
		nil, nil, nil, now,
	)
}

func newMock(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationRepo(db), mock
}

func TestCreateWithCapacityClaimsOneTable(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE INTO slot_inventory").
		WithArgs("2026-09-12", "20:00", "standard", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE slot_inventory").
		WithArgs("2026-09-12", "20:00", "standard").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("(?s)SELECT (.+) FROM reservations WHERE id = ?").
		WithArgs(uint64(7)).
		WillReturnRows(pendingRow(7, "RSV-5FA21C0D"))
	mock.ExpectCommit()

	res := &model.Reservation{
		Code: "RSV-5FA21C0D", GuestName: "Ada Moreno", GuestEmail: "ada@example.com",
		GuestPhone: "+34600111222", PartySize: 4, TableType: "standard",
		Date: "2026-09-12", Time: "20:00", Status: model.StatusPending,
	}
	err := repo.CreateWithCapacity(context.Background(), res, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), res.ID)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithCapacityFullBucketRollsBack(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE INTO slot_inventory").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE slot_inventory").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	res := &model.Reservation{
		Code: "RSV-11111111", Date: "2026-09-12", Time: "20:00",
		TableType: "standard", Status: model.StatusPending,
	}
	err := repo.CreateWithCapacity(context.Background(), res, 10)
	assert.ErrorIs(t, err, ErrNoCapacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("(?s)SELECT (.+) FROM reservations WHERE id = ?").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(reservationCols))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestTransitionGuardMismatch(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE reservations SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Transition(context.Background(), 7, model.StatusPending, model.StatusConfirmed, time.Now())
	assert.ErrorIs(t, err, ErrNoChange)
}

func TestTransitionStampsConfirmedAt(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE reservations SET status = \\?, confirmed_at = \\?").
		WithArgs("CONFIRMED", at, uint64(7), "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Transition(context.Background(), 7, model.StatusPending, model.StatusConfirmed, at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionToCancelledIsRefused(t *testing.T) {
	repo, _ := newMock(t)
	err := repo.Transition(context.Background(), 7, model.StatusPending, model.StatusCancelled, time.Now())
	assert.ErrorIs(t, err, ErrNoChange)
}

func TestCancelAndReleaseDecrementsBucket(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservations SET status = \\?, cancelled_at = \\?").
		WithArgs("CANCELLED", at, uint64(7), "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE slot_inventory").
		WithArgs("2026-09-12", "20:00", "standard").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res := &model.Reservation{
		ID: 7, Date: "2026-09-12", Time: "20:00",
		TableType: "standard", Status: model.StatusPending,
	}
	err := repo.CancelAndRelease(context.Background(), res, at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelAndReleaseStaleStatus(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservations SET status = \\?, cancelled_at = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	res := &model.Reservation{ID: 7, Status: model.StatusPending}
	err := repo.CancelAndRelease(context.Background(), res, time.Now())
	assert.ErrorIs(t, err, ErrNoChange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountActiveByDate(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("(?s)SELECT res_time, table_type, COUNT(.+)status IN").
		WithArgs("2026-09-12", "PENDING", "CONFIRMED", "COMPLETED", "NO_SHOW").
		WillReturnRows(sqlmock.NewRows([]string{"res_time", "table_type", "n"}).
			AddRow("20:00", "standard", 3).
			AddRow("20:00", "vip", 1))

	counts, err := repo.CountActiveByDate(context.Background(), "2026-09-12")
	require.NoError(t, err)
	assert.Equal(t, 3, counts[model.Bucket{Date: "2026-09-12", Time: "20:00", TableType: "standard"}])
	assert.Equal(t, 1, counts[model.Bucket{Date: "2026-09-12", Time: "20:00", TableType: "vip"}])
	assert.Len(t, counts, 2)
}

func TestListBuildsFilterClauses(t *testing.T) {
	repo, mock := newMock(t)
	st := model.StatusConfirmed
	uid := uint64(12)

	mock.ExpectQuery("(?s)SELECT (.+) FROM reservations WHERE status = \\? AND res_date = \\? AND user_id = \\? AND \\(LOWER\\(guest_name\\)").
		WithArgs("CONFIRMED", "2026-09-12", uid, "%ada%", "%ada%", "%ada%", 50).
		WillReturnRows(pendingRow(7, "RSV-5FA21C0D"))

	items, err := repo.List(context.Background(), ListFilter{
		Status: &st, Date: "2026-09-12", UserID: &uid, Search: "Ada", Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "RSV-5FA21C0D", items[0].Code)
}
