package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the two relations the service needs.  bookings.room_id
// deliberately has no foreign key: deleting a room leaves its bookings in
// place.  The (room_id, start_time) index serves both the overlap check and
// the ordered per-room listing.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id          BIGINT       NOT NULL AUTO_INCREMENT,
		name        VARCHAR(255) NOT NULL,
		capacity    INT          NOT NULL,
		description TEXT         NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         BIGINT       NOT NULL AUTO_INCREMENT,
		room_id    BIGINT       NOT NULL,
		start_time DATETIME     NOT NULL,
		end_time   DATETIME     NOT NULL,
		booked_by  VARCHAR(255) NOT NULL,
		PRIMARY KEY (id),
		KEY idx_bookings_room_start (room_id, start_time)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates missing tables.  It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
