// Package service holds the room registry and the booking ledger.  Services
// validate requests, call the store and translate store failures into
// apperrors kinds; they know nothing about HTTP.
package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// RoomStore is the persistence the room registry needs.  *repository.RoomRepo
// implements it.
type RoomStore interface {
	List(ctx context.Context) ([]model.Room, error)
	GetByID(ctx context.Context, id int64) (*model.Room, error)
	Create(ctx context.Context, room *model.Room) error
	Update(ctx context.Context, id int64, p repository.RoomPatch) error
	Delete(ctx context.Context, id int64) error
}

// BookingStore is the persistence the booking ledger needs.
// CreateIfFree must perform the overlap check and the insert atomically.
type BookingStore interface {
	List(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error)
	ListByRoom(ctx context.Context, roomID int64) ([]model.Booking, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	CreateIfFree(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, id int64) error
}

// EventPublisher receives booking audit events after a write commits.
// Publish is called on the request path and must not wait on a broker;
// *queue.Publisher only enqueues.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.BookingEvent) error { return nil }

// NopPublisher drops every event.  It is used when events are disabled.
var NopPublisher EventPublisher = nopPublisher{}

var validate = validator.New()
