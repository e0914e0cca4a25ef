package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/apperrors"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/service"
)

// BookingService is what the booking endpoints need from the ledger.
type BookingService interface {
	List(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error)
	ListForRoom(ctx context.Context, roomID int64) ([]model.Booking, error)
	Get(ctx context.Context, id int64) (*model.Booking, error)
	Create(ctx context.Context, req service.CreateBookingRequest) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// BookingHandler serves /api/bookings.
type BookingHandler struct {
	Bookings BookingService
}

// NewBookingHandler returns a BookingHandler backed by svc.
func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{Bookings: svc}
}

// List handles GET /api/bookings with the optional roomId and date filters.
func (h *BookingHandler) List(c echo.Context) error {
	var q service.BookingQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return apperrors.Validation("Invalid query parameters")
	}
	filter, err := q.Filter()
	if err != nil {
		return err
	}
	bookings, err := h.Bookings.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}

// ListForRoom handles GET /api/bookings/room/:roomId.
func (h *BookingHandler) ListForRoom(c echo.Context) error {
	roomID, err := idParam(c, "roomId")
	if err != nil {
		return err
	}
	bookings, err := h.Bookings.ListForRoom(c.Request().Context(), roomID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}

// Get handles GET /api/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	b, err := h.Bookings.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	var req service.CreateBookingRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	id, err := h.Bookings.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/api/bookings/"+strconv.FormatInt(id, 10))
	return c.String(http.StatusCreated, "Booking created successfully")
}

// Delete handles DELETE /api/bookings/:id.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Bookings.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.String(http.StatusOK, "Booking deleted successfully")
}
