package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/apperrors"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// RoomService is the room registry.
type RoomService struct {
	store RoomStore
	log   *zap.Logger
}

// NewRoomService wires a RoomService to its store.
func NewRoomService(store RoomStore, log *zap.Logger) *RoomService {
	return &RoomService{store: store, log: log.Named("rooms")}
}

// List returns every room ordered by id.
func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	rooms, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.Storage("Failed to fetch rooms", err)
	}
	return rooms, nil
}

// Get returns one room.
func (s *RoomService) Get(ctx context.Context, id int64) (*model.Room, error) {
	room, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, apperrors.NotFound("Room")
		}
		return nil, apperrors.Storage("Failed to fetch room", err)
	}
	return room, nil
}

// Create registers a room and returns its id.  Name and a non-zero
// capacity are required; neither uniqueness nor a positive capacity is
// enforced.
func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest) (int64, error) {
	if err := validate.Struct(req); err != nil {
		return 0, apperrors.Validation("Name and capacity are required")
	}
	room := &model.Room{Name: req.Name, Capacity: req.Capacity, Description: req.Description}
	if err := s.store.Create(ctx, room); err != nil {
		return 0, apperrors.Storage("Failed to create room", err)
	}
	s.log.Info("room created", zap.Int64("room_id", room.ID), zap.String("name", room.Name))
	return room.ID, nil
}

// Update writes the supplied fields of req.  At least one field must be
// present.  Updating an id that does not exist succeeds without effect.
func (s *RoomService) Update(ctx context.Context, id int64, req UpdateRoomRequest) error {
	patch := repository.RoomPatch{Name: req.Name, Capacity: req.Capacity, Description: req.Description}
	if patch.Empty() {
		return apperrors.Validation("No update data provided")
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.Validation("Name must not be empty and capacity must not be zero")
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrNoChange) {
			return apperrors.Validation("No update data provided")
		}
		return apperrors.Storage("Failed to update room", err)
	}
	return nil
}

// Delete removes a room.  Its bookings are kept.
func (s *RoomService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return apperrors.Storage("Failed to delete room", err)
	}
	s.log.Info("room deleted", zap.Int64("room_id", id))
	return nil
}
