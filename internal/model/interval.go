package model

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval is non-empty (Start strictly before End).
func (iv Interval) Valid() bool {
	return iv.Start.Before(iv.End)
}

// Overlaps reports whether two half-open intervals share at least one
// instant.  Intervals that only touch (one ends exactly where the other
// starts) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Admit decides whether candidate can be booked next to the existing
// intervals of the same room.  It returns false as soon as one existing
// interval overlaps the candidate.
func Admit(candidate Interval, existing []Interval) bool {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return false
		}
	}
	return true
}

// Conflicting returns the bookings whose interval overlaps candidate, in
// their original order.
func Conflicting(candidate Interval, bookings []Booking) []Booking {
	var out []Booking
	for _, b := range bookings {
		if candidate.Overlaps(b.Interval()) {
			out = append(out, b)
		}
	}
	return out
}
