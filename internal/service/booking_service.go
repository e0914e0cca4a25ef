package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/apperrors"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// Messages returned to clients by the booking ledger.
const (
	msgBookingFieldsRequired = "Room ID, start time, end time, and booked by are required"
	msgBadTimeFormat         = "Invalid start or end time format. Use ISO 8601."
	msgBadInterval           = "Start time must be before end time"
	msgSlotTaken             = "Room is already booked for the requested time slot."
)

// BookingService is the booking ledger.  It owns the non-overlap rule;
// the store makes the check and the insert atomic.
type BookingService struct {
	store  BookingStore
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewBookingService wires a BookingService.  A nil publisher disables
// audit events.
func NewBookingService(store BookingStore, events EventPublisher, log *zap.Logger) *BookingService {
	if events == nil {
		events = NopPublisher
	}
	return &BookingService{store: store, events: events, log: log.Named("bookings"), now: time.Now}
}

// Filter validates the raw query parameters and converts them into a
// store filter.
func (q BookingQuery) Filter() (repository.BookingFilter, error) {
	var f repository.BookingFilter
	if err := validate.Struct(q); err != nil {
		return f, apperrors.Validation("roomId must be an integer and date must be YYYY-MM-DD")
	}
	if q.RoomID != "" {
		id, err := strconv.ParseInt(q.RoomID, 10, 64)
		if err != nil {
			return f, apperrors.Validation("roomId must be an integer")
		}
		f.RoomID = &id
	}
	if q.Date != "" {
		d, err := time.Parse(time.DateOnly, q.Date)
		if err != nil {
			return f, apperrors.Validation("date must be YYYY-MM-DD")
		}
		f.Date = &d
	}
	return f, nil
}

// List returns bookings matching f ordered by start time.
func (s *BookingService) List(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	bookings, err := s.store.List(ctx, f)
	if err != nil {
		return nil, apperrors.Storage("Failed to fetch bookings", err)
	}
	return bookings, nil
}

// ListForRoom returns the bookings of one room ordered by start time.  An
// unknown room yields an empty list.
func (s *BookingService) ListForRoom(ctx context.Context, roomID int64) ([]model.Booking, error) {
	bookings, err := s.store.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, apperrors.Storage("Failed to fetch room bookings", err)
	}
	return bookings, nil
}

// Get returns one booking.
func (s *BookingService) Get(ctx context.Context, id int64) (*model.Booking, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, apperrors.NotFound("Booking")
		}
		return nil, apperrors.Storage("Failed to fetch booking", err)
	}
	return b, nil
}

// Create validates req, then atomically checks for overlaps and inserts.
// It returns the new booking id.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (int64, error) {
	if err := validate.Struct(req); err != nil {
		return 0, apperrors.Validation(msgBookingFieldsRequired)
	}
	start, errStart := ParseTimestamp(req.StartTime)
	end, errEnd := ParseTimestamp(req.EndTime)
	if errStart != nil || errEnd != nil {
		return 0, apperrors.Validation(msgBadTimeFormat)
	}
	b := &model.Booking{RoomID: req.RoomID, StartTime: start, EndTime: end, BookedBy: req.BookedBy}
	if !b.Interval().Valid() {
		return 0, apperrors.Validation(msgBadInterval)
	}

	if err := s.store.CreateIfFree(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return 0, apperrors.NotFound("Room")
		case errors.Is(err, repository.ErrConflict):
			s.log.Info("booking rejected",
				zap.Int64("room_id", b.RoomID),
				zap.Time("start_time", b.StartTime),
				zap.Time("end_time", b.EndTime),
				zap.Error(err))
			return 0, apperrors.Conflict(msgSlotTaken)
		default:
			return 0, apperrors.Storage("Failed to create booking", err)
		}
	}

	s.log.Info("booking created", zap.Int64("booking_id", b.ID), zap.Int64("room_id", b.RoomID))
	s.publish(ctx, queue.NewBookingCreated(*b, s.now()))
	return b.ID, nil
}

// Delete removes a booking.  Deleting an unknown id succeeds.
func (s *BookingService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return apperrors.Storage("Failed to delete booking", err)
	}
	s.publish(ctx, queue.NewBookingDeleted(id, s.now()))
	return nil
}

// publish is best effort: the write has already committed, so a broker
// failure is logged and swallowed.
func (s *BookingService) publish(ctx context.Context, ev queue.BookingEvent) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("audit event dropped",
			zap.String("event_type", ev.Type),
			zap.Int64("booking_id", ev.BookingID),
			zap.Error(err))
	}
}
