package model

import "time"

// Booking records a time-bound claim on a room.  The interval is half-open:
// a booking occupies [StartTime, EndTime).  JSON keys mirror the column
// names of the bookings table.
//
// Fields:
//  ID        – primary key identifier assigned by the store.
//  RoomID    – room being booked; checked for existence only at creation.
//  StartTime – inclusive start, UTC.
//  EndTime   – exclusive end, UTC.
//  BookedBy  – free text identifying the requester.
type Booking struct {
	ID        int64     `json:"id"`         // bookings.id
	RoomID    int64     `json:"room_id"`    // bookings.room_id
	StartTime time.Time `json:"start_time"` // bookings.start_time
	EndTime   time.Time `json:"end_time"`   // bookings.end_time
	BookedBy  string    `json:"booked_by"`  // bookings.booked_by
}

// Interval returns the half-open time range occupied by the booking.
func (b Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}
