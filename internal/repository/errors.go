// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services to distinguish between different failure scenarios without
// inspecting driver errors themselves.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/room-reservation/internal/model"
)

// ErrConflict is returned when a booking cannot be inserted because its
// interval collides with an existing booking for the same room, or because
// the database aborted the transaction while serialising two concurrent
// writers for that room.
var ErrConflict = errors.New("conflict")

// ErrNoChange is returned by partial updates that carry no fields.
var ErrNoChange = errors.New("no change")

// OverlapError carries the bookings that blocked an insert.  It matches
// ErrConflict under errors.Is.
type OverlapError struct {
	Conflicts []model.Booking
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("booking overlaps %d existing booking(s)", len(e.Conflicts))
}

func (e *OverlapError) Unwrap() error { return ErrConflict }

// MySQL error numbers raised when InnoDB gives up on one of two competing
// transactions.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// classify converts driver errors that mean "another writer won" into
// ErrConflict and passes everything else through unchanged.
func classify(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDeadlock, mysqlLockWaitTimeout:
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	return err
}
