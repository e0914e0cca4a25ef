// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/room-reservation/internal/model"
)

// BookingEventsQueue is the durable queue audit events are routed to.
const BookingEventsQueue = "booking.events"

// Event types carried in BookingEvent.Type.
const (
	EventBookingCreated = "booking.created"
	EventBookingDeleted = "booking.deleted"
)

// BookingEvent is published after a booking write has committed.  It is an
// audit record for operators; nothing in the request path reads it back.
// Deleted events only carry the booking id because deletes do not load the
// row first.
type BookingEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	BookingID  int64  `json:"booking_id"`
	RoomID     int64  `json:"room_id,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	BookedBy   string `json:"booked_by,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewBookingCreated builds the event for a freshly inserted booking.
func NewBookingCreated(b model.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       EventBookingCreated,
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		StartTime:  b.StartTime.UTC().Format(time.RFC3339),
		EndTime:    b.EndTime.UTC().Format(time.RFC3339),
		BookedBy:   b.BookedBy,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}

// NewBookingDeleted builds the event for a delete request.
func NewBookingDeleted(id int64, at time.Time) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       EventBookingDeleted,
		BookingID:  id,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
