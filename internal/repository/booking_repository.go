package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// BookingFilter narrows List.  A nil RoomID or Date means "no filter".
// Date matches the calendar date of start_time only (UTC), not the whole
// span of the booking.
type BookingFilter struct {
	RoomID *int64
	Date   *time.Time
}

// BookingRepo manages persistence for bookings and is the only writer of
// the bookings table.  All timestamps are stored and compared in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, room_id, start_time, end_time, booked_by`

type rowScanner interface{ Scan(...any) error }

func scanBooking(s rowScanner) (model.Booking, error) {
	var b model.Booking
	if err := s.Scan(&b.ID, &b.RoomID, &b.StartTime, &b.EndTime, &b.BookedBy); err != nil {
		return model.Booking{}, err
	}
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()
	return b, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryBookings(ctx context.Context, q querier, query string, args ...any) ([]model.Booking, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns bookings matching the filter ordered by start time
// ascending.  Filters compose with AND.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var (
		conds []string
		args  []any
	)
	if f.RoomID != nil {
		conds = append(conds, "room_id = ?")
		args = append(args, *f.RoomID)
	}
	if f.Date != nil {
		conds = append(conds, "DATE(start_time) = ?")
		args = append(args, f.Date.UTC().Format(time.DateOnly))
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY start_time ASC, id ASC`
	return queryBookings(ctx, r.db, query, args...)
}

// ListByRoom returns the bookings of one room ordered by start time.
func (r *BookingRepo) ListByRoom(ctx context.Context, roomID int64) ([]model.Booking, error) {
	return r.List(ctx, BookingFilter{RoomID: &roomID})
}

// GetByID retrieves a booking by its ID or returns ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CreateIfFree inserts b unless it overlaps an existing booking of the same
// room.  The overlap check and the insert run in one SERIALIZABLE
// transaction that first takes a row lock on the room, so two concurrent
// callers for the same room are serialised by the database: the second one
// sees the first one's row and gets an *OverlapError.  If InnoDB resolves
// the race by aborting a transaction instead (deadlock or lock timeout),
// the loser gets ErrConflict as well.  A missing room yields
// ErrRoomNotFound.  On success b.ID is set.
func (r *BookingRepo) CreateIfFree(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return classify(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := lockRoomTx(ctx, tx, b.RoomID); err != nil {
		return err
	}
	existing, err := r.FindOverlappingTx(ctx, tx, b.RoomID, b.StartTime, b.EndTime)
	if err != nil {
		return classify(err)
	}
	if conflicts := model.Conflicting(b.Interval(), existing); len(conflicts) > 0 {
		return &OverlapError{Conflicts: conflicts}
	}
	if err := r.CreateTx(ctx, tx, b); err != nil {
		return classify(err)
	}
	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	committed = true
	return nil
}

// lockRoomTx takes an exclusive lock on the room row for the rest of the
// transaction and confirms the room exists.
func lockRoomTx(ctx context.Context, tx *sql.Tx, roomID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, roomID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	return classify(err)
}

// FindOverlappingTx returns the bookings of roomID whose interval overlaps
// [start, end).  The single predicate start_time < end AND end_time > start
// covers an existing booking that straddles, starts inside or ends inside
// the candidate; bookings that merely touch it are excluded.
func (r *BookingRepo) FindOverlappingTx(ctx context.Context, tx *sql.Tx, roomID int64, start, end time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
               FROM bookings
               WHERE room_id = ? AND start_time < ? AND end_time > ?
               ORDER BY start_time ASC`
	return queryBookings(ctx, tx, q, roomID, end.UTC(), start.UTC())
}

// CreateTx inserts a booking inside the caller's transaction and sets its ID.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (room_id, start_time, end_time, booked_by) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.RoomID, b.StartTime.UTC(), b.EndTime.UTC(), b.BookedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// Delete removes a booking.  Deleting an id that does not exist is a no-op.
func (r *BookingRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}
