package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/room-reservation/internal/model"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// RoomPatch lists the columns a partial update writes.  Nil fields are left
// untouched.
type RoomPatch struct {
	Name        *string
	Capacity    *int
	Description *string
}

// Empty reports whether the patch would write nothing.
func (p RoomPatch) Empty() bool {
	return p.Name == nil && p.Capacity == nil && p.Description == nil
}

// RoomRepo provides CRUD access to the rooms table.
type RoomRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = `id, name, capacity, description`

// scanRoom reads one row in roomColumns order.  description may be NULL.
func scanRoom(s rowScanner) (model.Room, error) {
	var (
		r    model.Room
		desc sql.NullString
	)
	if err := s.Scan(&r.ID, &r.Name, &r.Capacity, &desc); err != nil {
		return model.Room{}, err
	}
	if desc.Valid {
		d := desc.String
		r.Description = &d
	}
	return r, nil
}

// List returns every room ordered by id.  An empty table yields an empty,
// non-nil slice so it encodes as [].
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a room by its ID.  It returns ErrRoomNotFound when no
// row is found.
func (r *RoomRepo) GetByID(ctx context.Context, id int64) (*model.Room, error) {
	room, err := scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Create inserts a new room and assigns the generated ID back to it.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const q = `INSERT INTO rooms (name, capacity, description) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, room.Name, room.Capacity, room.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = id
	return nil
}

// Update writes only the columns present in the patch.  Updating a room
// that does not exist affects no rows and is not an error.  An empty patch
// returns ErrNoChange without touching the database.
func (r *RoomRepo) Update(ctx context.Context, id int64, p RoomPatch) error {
	if p.Empty() {
		return ErrNoChange
	}
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Capacity != nil {
		sets = append(sets, "capacity = ?")
		args = append(args, *p.Capacity)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, `UPDATE rooms SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return err
}

// Delete removes a room.  Bookings referencing it are left in place and a
// missing id is a no-op.
func (r *RoomRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	return err
}

// Ping checks that the database is reachable.
func (r *RoomRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
