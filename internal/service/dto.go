package service

// CreateRoomRequest is the body of POST /api/rooms.  A capacity of 0 is
// treated as missing.
type CreateRoomRequest struct {
	Name        string  `json:"name" validate:"required"`
	Capacity    int     `json:"capacity" validate:"required"`
	Description *string `json:"description"`
}

// UpdateRoomRequest is the body of PUT /api/rooms/:id.  A nil field is not
// updated; a supplied field must still be meaningful.
type UpdateRoomRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Capacity    *int    `json:"capacity" validate:"omitempty,ne=0"`
	Description *string `json:"description"`
}

// CreateBookingRequest is the body of POST /api/bookings.  Times are ISO
// 8601 strings; they are parsed by the booking service.
type CreateBookingRequest struct {
	RoomID    int64  `json:"roomId" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	BookedBy  string `json:"bookedBy" validate:"required"`
}

// BookingQuery holds the raw query parameters of GET /api/bookings.
type BookingQuery struct {
	RoomID string `query:"roomId" validate:"omitempty,number"`
	Date   string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}
