package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/apperrors"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/service"
)

type stubRooms struct {
	rooms     []model.Room
	err       error
	created   service.CreateRoomRequest
	updatedID int64
	updated   service.UpdateRoomRequest
	deletedID int64
}

func (s *stubRooms) List(context.Context) ([]model.Room, error) { return s.rooms, s.err }

func (s *stubRooms) Get(_ context.Context, id int64) (*model.Room, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, r := range s.rooms {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, apperrors.NotFound("Room")
}

func (s *stubRooms) Create(_ context.Context, req service.CreateRoomRequest) (int64, error) {
	s.created = req
	return 7, s.err
}

func (s *stubRooms) Update(_ context.Context, id int64, req service.UpdateRoomRequest) error {
	s.updatedID, s.updated = id, req
	return s.err
}

func (s *stubRooms) Delete(_ context.Context, id int64) error {
	s.deletedID = id
	return s.err
}

type stubBookings struct {
	bookings []model.Booking
	err      error
	filter   repository.BookingFilter
	roomID   int64
	created  service.CreateBookingRequest
}

func (s *stubBookings) List(_ context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	s.filter = f
	return s.bookings, s.err
}

func (s *stubBookings) ListForRoom(_ context.Context, roomID int64) ([]model.Booking, error) {
	s.roomID = roomID
	return s.bookings, s.err
}

func (s *stubBookings) Get(_ context.Context, id int64) (*model.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Booking{ID: id}, nil
}

func (s *stubBookings) Create(_ context.Context, req service.CreateBookingRequest) (int64, error) {
	s.created = req
	return 11, s.err
}

func (s *stubBookings) Delete(context.Context, int64) error { return s.err }

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"route not found", echo.ErrNotFound, 404, "Not Found"},
		{"method not allowed", echo.ErrMethodNotAllowed, 404, "Not Found"},
		{"unauthorized", echo.NewHTTPError(401, "Invalid token"), 401, "Invalid token"},
		{"too large", echo.ErrStatusRequestEntityTooLarge, 413, "Request Entity Too Large"},
		{"echo 500", echo.NewHTTPError(500, "boom"), 500, "Unknown server error"},
		{"validation", apperrors.Validation("No update data provided"), 400, "No update data provided"},
		{"not found", apperrors.NotFound("Room"), 404, "Room not found"},
		{"conflict", apperrors.Conflict("Room is already booked for the requested time slot."), 409, "Room is already booked for the requested time slot."},
		{"storage", apperrors.Storage("Failed to create room", errors.New("dial tcp")), 500, "Failed to create room"},
		{"plain error", errors.New("kaboom"), 500, "Unknown server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := render(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestRoomHandler(t *testing.T) {
	desc := "Projector"
	rooms := &stubRooms{rooms: []model.Room{{ID: 1, Name: "Aurora", Capacity: 8, Description: &desc}}}
	h := NewRoomHandler(rooms)
	e := newEcho()
	e.GET("/api/rooms", h.List)
	e.GET("/api/rooms/:id", h.Get)
	e.POST("/api/rooms", h.Create)
	e.PUT("/api/rooms/:id", h.Update)
	e.DELETE("/api/rooms/:id", h.Delete)

	rec := serve(e, http.MethodGet, "/api/rooms", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Aurora","capacity":8,"description":"Projector"}]`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/api/rooms/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Room not found", rec.Body.String())

	for _, bad := range []string{"abc", "0", "-1", "+7"} {
		rec = serve(e, http.MethodGet, "/api/rooms/"+bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
		assert.Equal(t, "Invalid id", rec.Body.String(), bad)
	}

	rec = serve(e, http.MethodPost, "/api/rooms", `{"name":"Boreal","capacity":4}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Room created successfully", rec.Body.String())
	assert.Equal(t, "/api/rooms/7", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Boreal", rooms.created.Name)
	assert.Nil(t, rooms.created.Description)

	rec = serve(e, http.MethodPut, "/api/rooms/1", `{"capacity":12}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Room updated successfully", rec.Body.String())
	assert.Equal(t, int64(1), rooms.updatedID)
	require.NotNil(t, rooms.updated.Capacity)
	assert.Equal(t, 12, *rooms.updated.Capacity)
	assert.Nil(t, rooms.updated.Name)

	rec = serve(e, http.MethodDelete, "/api/rooms/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Room deleted successfully", rec.Body.String())
	assert.Equal(t, int64(1), rooms.deletedID)
}

func TestRoomHandler_StrictBody(t *testing.T) {
	rooms := &stubRooms{}
	e := newEcho()
	e.POST("/api/rooms", NewRoomHandler(rooms).Create)

	for _, body := range []string{
		`{"name":"A","capacity":1,"colour":"red"}`,
		`{"name":"A","capacity":"ten"}`,
		`{"name":"A"`,
		`{"name":"A","capacity":1} {"x":1}`,
	} {
		rec := serve(e, http.MethodPost, "/api/rooms", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Invalid request body", rec.Body.String(), body)
	}
}

func TestRoomHandler_EmptyBodyReachesService(t *testing.T) {
	rooms := &stubRooms{err: apperrors.Validation("Name and capacity are required")}
	e := newEcho()
	e.POST("/api/rooms", NewRoomHandler(rooms).Create)

	rec := serve(e, http.MethodPost, "/api/rooms", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name and capacity are required", rec.Body.String())
}

func TestRoomHandler_StorageError(t *testing.T) {
	rooms := &stubRooms{err: apperrors.Storage("Failed to fetch rooms", errors.New("db down"))}
	e := newEcho()
	e.GET("/api/rooms", NewRoomHandler(rooms).List)

	rec := serve(e, http.MethodGet, "/api/rooms", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch rooms", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestBookingHandler(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookings{bookings: []model.Booking{
		{ID: 1, RoomID: 2, StartTime: start, EndTime: start.Add(time.Hour), BookedBy: "alice"},
	}}
	h := NewBookingHandler(bookings)
	e := newEcho()
	e.GET("/api/bookings", h.List)
	e.GET("/api/bookings/room/:roomId", h.ListForRoom)
	e.GET("/api/bookings/:id", h.Get)
	e.POST("/api/bookings", h.Create)
	e.DELETE("/api/bookings/:id", h.Delete)

	rec := serve(e, http.MethodGet, "/api/bookings?roomId=2&date=2025-03-10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"room_id":2,"start_time":"2025-03-10T10:00:00Z","end_time":"2025-03-10T11:00:00Z","booked_by":"alice"}]`, rec.Body.String())
	require.NotNil(t, bookings.filter.RoomID)
	assert.Equal(t, int64(2), *bookings.filter.RoomID)
	require.NotNil(t, bookings.filter.Date)

	rec = serve(e, http.MethodGet, "/api/bookings?roomId=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = serve(e, http.MethodGet, "/api/bookings?date=03-10-2025", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, http.MethodGet, "/api/bookings/room/2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), bookings.roomID)

	rec = serve(e, http.MethodGet, "/api/bookings/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodPost, "/api/bookings",
		`{"roomId":2,"startTime":"2025-03-10T12:00:00Z","endTime":"2025-03-10T13:00:00Z","bookedBy":"bob"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Booking created successfully", rec.Body.String())
	assert.Equal(t, "/api/bookings/11", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "bob", bookings.created.BookedBy)

	rec = serve(e, http.MethodPost, "/api/bookings", `{"room_id":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "snake_case request keys are unknown fields")

	rec = serve(e, http.MethodDelete, "/api/bookings/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Booking deleted successfully", rec.Body.String())
}

func TestBookingHandler_Conflict(t *testing.T) {
	bookings := &stubBookings{err: apperrors.Conflict("Room is already booked for the requested time slot.")}
	e := newEcho()
	e.POST("/api/bookings", NewBookingHandler(bookings).Create)

	rec := serve(e, http.MethodPost, "/api/bookings",
		`{"roomId":1,"startTime":"2025-03-10T10:00:00Z","endTime":"2025-03-10T11:00:00Z","bookedBy":"a"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Room is already booked for the requested time slot.", rec.Body.String())
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
}

func TestHealth(t *testing.T) {
	e := newEcho()
	e.GET("/healthz", Health)
	rec := serve(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestReady(t *testing.T) {
	healthy := HealthCheck{Name: "mysql", Check: func(context.Context) error { return nil }}
	broken := HealthCheck{Name: "mysql", Check: func(context.Context) error { return errors.New("refused") }}

	e := newEcho()
	e.GET("/ok", Ready(zap.NewNop(), healthy))
	e.GET("/bad", Ready(zap.NewNop(), healthy, broken))

	rec := serve(e, http.MethodGet, "/ok", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/bad", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable: mysql", rec.Body.String())
}
