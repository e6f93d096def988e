package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/duskbar/table-reservation/internal/model"
)

// ReservationRepo provides durable access to reservations and the per-bucket
// capacity counters in slot_inventory.  All timestamp columns are stored in
// UTC.  Rows are never deleted: cancellation only rewrites status, which
// keeps the historical record available to reporting.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to compose
// transactions across repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// reservationColumns is the canonical select list.  res_date is formatted in
// SQL so every layer above sees the same YYYY-MM-DD string.
const reservationColumns = `id, code, user_id, guest_name, guest_email, guest_phone,
		party_size, table_type, DATE_FORMAT(res_date, '%Y-%m-%d'), res_time,
		occasion, notes, status, created_at, confirmed_at, arrived_at,
		completed_at, cancelled_at, reminder_sent_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	var userID sql.NullInt64
	var occasion, notes sql.NullString
	var status string
	var confirmedAt, arrivedAt, completedAt, cancelledAt, remindedAt sql.NullTime
	err := row.Scan(
		&res.ID, &res.Code, &userID, &res.GuestName, &res.GuestEmail, &res.GuestPhone,
		&res.PartySize, &res.TableType, &res.Date, &res.Time,
		&occasion, &notes, &status, &res.CreatedAt, &confirmedAt, &arrivedAt,
		&completedAt, &cancelledAt, &remindedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		v := uint64(userID.Int64)
		res.UserID = &v
	}
	if occasion.Valid {
		v := occasion.String
		res.Occasion = &v
	}
	if notes.Valid {
		v := notes.String
		res.Notes = &v
	}
	res.Status = model.Status(status)
	res.ConfirmedAt = nullTimePtr(confirmedAt)
	res.ArrivedAt = nullTimePtr(arrivedAt)
	res.CompletedAt = nullTimePtr(completedAt)
	res.CancelledAt = nullTimePtr(cancelledAt)
	res.ReminderSentAt = nullTimePtr(remindedAt)
	return &res, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

// CreateWithCapacity inserts a reservation while atomically claiming one
// table from its (date, time, table type) bucket.  The bucket counter row
// is seeded lazily from the catalog total, then incremented with a
// conditional update; when the counter is already at total_count the whole
// transaction rolls back and ErrNoCapacity is returned.  Two concurrent
// calls racing for the last table serialise on the counter row, so at most
// one of them can succeed.
//
// On success the generated id and the database-assigned timestamps are
// populated on res.
func (r *ReservationRepo) CreateWithCapacity(ctx context.Context, res *model.Reservation, totalTables int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const seed = `INSERT IGNORE INTO slot_inventory (res_date, res_time, table_type, total_count)
				  VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, seed, res.Date, res.Time, res.TableType, totalTables); err != nil {
		return err
	}

	const claim = `UPDATE slot_inventory
				   SET reserved_count = reserved_count + 1
				   WHERE res_date = ? AND res_time = ? AND table_type = ?
					 AND reserved_count < total_count`
	result, err := tx.ExecContext(ctx, claim, res.Date, res.Time, res.TableType)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoCapacity
	}

	const ins = `INSERT INTO reservations
				 (code, user_id, guest_name, guest_email, guest_phone, party_size,
				  table_type, res_date, res_time, occasion, notes, status)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insRes, err := tx.ExecContext(ctx, ins,
		res.Code, nullableUint(res.UserID), res.GuestName, res.GuestEmail, res.GuestPhone,
		res.PartySize, res.TableType, res.Date, res.Time,
		nullableStr(res.Occasion), nullableStr(res.Notes), string(res.Status),
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == 1062 {
			return ErrDuplicateCode
		}
		return err
	}
	id, err := insRes.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Query back the full row so defaults and timestamps are populated.
	sel := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	stored, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
	if err != nil {
		return err
	}
	*res = *stored

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// GetByCode looks a reservation up by its confirmation code.  The match is
// case-insensitive because codes are read to staff over the phone.
func (r *ReservationRepo) GetByCode(ctx context.Context, code string) (*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE UPPER(code) = UPPER(?)`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// Transition moves a reservation from one status to another, stamping the
// timestamp column owned by the target state.  The update is guarded on the
// expected current status; when a concurrent writer got there first the
// guard matches nothing and ErrNoChange is returned, so stale transitions
// can never overwrite a newer state.  Cancellations go through
// CancelAndRelease instead because they must also release the bucket.
func (r *ReservationRepo) Transition(ctx context.Context, id uint64, from, to model.Status, at time.Time) error {
	var q string
	args := []interface{}{string(to)}
	switch to {
	case model.StatusConfirmed:
		q = `UPDATE reservations SET status = ?, confirmed_at = ? WHERE id = ? AND status = ?`
		args = append(args, at.UTC())
	case model.StatusCompleted:
		q = `UPDATE reservations SET status = ?, arrived_at = ?, completed_at = ? WHERE id = ? AND status = ?`
		args = append(args, at.UTC(), at.UTC())
	case model.StatusNoShow:
		q = `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`
	default:
		return ErrNoChange
	}
	args = append(args, id, string(from))
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoChange
	}
	return nil
}

// CancelAndRelease cancels a reservation and gives its table back to the
// bucket in a single transaction, so the freed capacity is visible to the
// next CreateWithCapacity the moment the cancellation commits.
func (r *ReservationRepo) CancelAndRelease(ctx context.Context, res *model.Reservation, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const upd = `UPDATE reservations SET status = ?, cancelled_at = ? WHERE id = ? AND status = ?`
	result, err := tx.ExecContext(ctx, upd, string(model.StatusCancelled), at.UTC(), res.ID, string(res.Status))
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoChange
	}

	const release = `UPDATE slot_inventory
					 SET reserved_count = reserved_count - 1
					 WHERE res_date = ? AND res_time = ? AND table_type = ?
					   AND reserved_count > 0`
	if _, err := tx.ExecContext(ctx, release, res.Date, res.Time, res.TableType); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// MarkReminded records that a reminder went out for a confirmed
// reservation.  The marker may be refreshed by later reminders.
func (r *ReservationRepo) MarkReminded(ctx context.Context, id uint64, at time.Time) error {
	const q = `UPDATE reservations SET reminder_sent_at = ? WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, at.UTC(), id, string(model.StatusConfirmed))
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoChange
	}
	return nil
}

// CountActiveByDate returns, for one calendar date, the number of
// capacity-holding reservations per (time, table type) bucket.  The status
// filter comes from model.CapacityHolding.  Buckets with no reservations
// are absent from the map.
func (r *ReservationRepo) CountActiveByDate(ctx context.Context, date string) (map[model.Bucket]int, error) {
	holding := model.CapacityHolding()
	marks := make([]string, len(holding))
	args := make([]interface{}, 0, len(holding)+1)
	args = append(args, date)
	for i, st := range holding {
		marks[i] = "?"
		args = append(args, string(st))
	}
	q := `SELECT res_time, table_type, COUNT(*)
		  FROM reservations
		  WHERE res_date = ? AND status IN (` + strings.Join(marks, ", ") + `)
		  GROUP BY res_time, table_type`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[model.Bucket]int)
	for rows.Next() {
		var t, tt string
		var n int
		if err := rows.Scan(&t, &tt, &n); err != nil {
			return nil, err
		}
		counts[model.Bucket{Date: date, Time: t, TableType: tt}] = n
	}
	return counts, rows.Err()
}

// ListFilter narrows List results.  All fields are optional; zero values
// are ignored.  Search matches guest name, email and confirmation code
// case-insensitively.
type ListFilter struct {
	Status   *model.Status
	Date     string
	FromDate string
	UserID   *uint64
	Search   string
	Limit    int
}

// List returns reservations matching the filter, newest schedule first.
func (r *ReservationRepo) List(ctx context.Context, f ListFilter) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations`
	var conds []string
	var args []interface{}
	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*f.Status))
	}
	if f.Date != "" {
		conds = append(conds, "res_date = ?")
		args = append(args, f.Date)
	}
	if f.FromDate != "" {
		conds = append(conds, "res_date >= ?")
		args = append(args, f.FromDate)
	}
	if f.UserID != nil {
		conds = append(conds, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.Search != "" {
		conds = append(conds, "(LOWER(guest_name) LIKE ? OR LOWER(guest_email) LIKE ? OR LOWER(code) LIKE ?)")
		term := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, term, term, term)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY res_date DESC, res_time DESC, id DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func nullableUint(v *uint64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableStr(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
