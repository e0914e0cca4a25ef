package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/service"
)

// RoomService is what the room endpoints need from the registry.
type RoomService interface {
	List(ctx context.Context) ([]model.Room, error)
	Get(ctx context.Context, id int64) (*model.Room, error)
	Create(ctx context.Context, req service.CreateRoomRequest) (int64, error)
	Update(ctx context.Context, id int64, req service.UpdateRoomRequest) error
	Delete(ctx context.Context, id int64) error
}

// RoomHandler serves /api/rooms.
type RoomHandler struct {
	Rooms RoomService
}

// NewRoomHandler returns a RoomHandler backed by svc.
func NewRoomHandler(svc RoomService) *RoomHandler {
	return &RoomHandler{Rooms: svc}
}

// List handles GET /api/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rooms)
}

// Get handles GET /api/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	room, err := h.Rooms.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

// Create handles POST /api/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var req service.CreateRoomRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	id, err := h.Rooms.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/api/rooms/"+strconv.FormatInt(id, 10))
	return c.String(http.StatusCreated, "Room created successfully")
}

// Update handles PUT /api/rooms/:id.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateRoomRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	if err := h.Rooms.Update(c.Request().Context(), id, req); err != nil {
		return err
	}
	return c.String(http.StatusOK, "Room updated successfully")
}

// Delete handles DELETE /api/rooms/:id.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.String(http.StatusOK, "Room deleted successfully")
}
