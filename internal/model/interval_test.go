package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	existing := Interval{Start: at(10, 0), End: at(12, 0)}

	tests := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{"identical", Interval{at(10, 0), at(12, 0)}, true},
		{"existing contains candidate", Interval{at(10, 30), at(11, 30)}, true},
		{"candidate contains existing", Interval{at(9, 0), at(13, 0)}, true},
		{"partial from the left", Interval{at(9, 0), at(10, 30)}, true},
		{"partial from the right", Interval{at(11, 30), at(13, 0)}, true},
		{"touching before", Interval{at(9, 0), at(10, 0)}, false},
		{"touching after", Interval{at(12, 0), at(13, 0)}, false},
		{"disjoint before", Interval{at(7, 0), at(8, 0)}, false},
		{"disjoint after", Interval{at(14, 0), at(15, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.candidate.Overlaps(existing))
			assert.Equal(t, tt.want, existing.Overlaps(tt.candidate), "overlap must be symmetric")
		})
	}
}

func TestAdmit(t *testing.T) {
	booked := []Interval{{at(10, 0), at(11, 0)}}

	assert.True(t, Admit(Interval{at(11, 0), at(12, 0)}, booked), "back-to-back booking is admitted")
	assert.False(t, Admit(Interval{at(10, 30), at(11, 30)}, booked))
	assert.True(t, Admit(Interval{at(10, 0), at(11, 0)}, nil), "empty room admits anything")
}

// threeClause is the overlap predicate written as three separate cases:
// existing straddles the candidate, starts inside it, or ends inside it.
func threeClause(candidate, existing Interval) bool {
	s, e := candidate.Start, candidate.End
	straddles := existing.Start.Before(e) && existing.End.After(s)
	startsInside := !existing.Start.Before(s) && existing.Start.Before(e)
	endsInside := existing.End.After(s) && !existing.End.After(e)
	return straddles || startsInside || endsInside
}

func TestOverlaps_EquivalentToThreeClauseForm(t *testing.T) {
	// Every valid interval on a half-hour grid between 08:00 and 12:00.
	var grid []Interval
	for s := 0; s < 8; s++ {
		for e := s + 1; e <= 8; e++ {
			grid = append(grid, Interval{
				Start: at(8, 0).Add(time.Duration(s) * 30 * time.Minute),
				End:   at(8, 0).Add(time.Duration(e) * 30 * time.Minute),
			})
		}
	}

	for _, a := range grid {
		for _, b := range grid {
			assert.Equal(t, threeClause(a, b), a.Overlaps(b), "candidate=%v existing=%v", a, b)
		}
	}
}

func TestConflicting(t *testing.T) {
	bookings := []Booking{
		{ID: 1, StartTime: at(9, 0), EndTime: at(10, 0)},
		{ID: 2, StartTime: at(10, 0), EndTime: at(11, 0)},
		{ID: 3, StartTime: at(11, 0), EndTime: at(12, 0)},
	}

	got := Conflicting(Interval{at(10, 15), at(11, 15)}, bookings)
	if assert.Len(t, got, 2) {
		assert.Equal(t, int64(2), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
	}
	assert.Empty(t, Conflicting(Interval{at(12, 0), at(13, 0)}, bookings))
}

func TestInterval_Valid(t *testing.T) {
	assert.True(t, Interval{at(10, 0), at(11, 0)}.Valid())
	assert.False(t, Interval{at(10, 0), at(10, 0)}.Valid())
	assert.False(t, Interval{at(11, 0), at(10, 0)}.Valid())
}
