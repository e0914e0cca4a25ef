package model

// Room represents a bookable room.  Rooms are plain value records: the
// registry does not track which bookings reference them, and deleting a
// room leaves its bookings in place.
//
// Fields:
//  ID          – primary key identifier assigned by the store.
//  Name        – human readable name (non-empty).
//  Capacity    – number of people the room holds.
//  Description – optional free text (nil when unset).
type Room struct {
	ID          int64   `json:"id"`          // rooms.id
	Name        string  `json:"name"`        // rooms.name
	Capacity    int     `json:"capacity"`    // rooms.capacity
	Description *string `json:"description"` // rooms.description (nullable)
}
