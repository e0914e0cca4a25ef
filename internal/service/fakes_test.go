package service

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// memRooms is an in-memory RoomStore.
type memRooms struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]model.Room
	err    error
}

func newMemRooms() *memRooms { return &memRooms{rows: map[int64]model.Room{}} }

func (m *memRooms) List(context.Context) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []model.Room{}
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRooms) GetByID(_ context.Context, id int64) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return &r, nil
}

func (m *memRooms) Create(_ context.Context, room *model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	room.ID = m.nextID
	m.rows[room.ID] = *room
	return nil
}

func (m *memRooms) Update(_ context.Context, id int64, p repository.RoomPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if p.Empty() {
		return repository.ErrNoChange
	}
	r, ok := m.rows[id]
	if !ok {
		return nil
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Capacity != nil {
		r.Capacity = *p.Capacity
	}
	if p.Description != nil {
		r.Description = p.Description
	}
	m.rows[id] = r
	return nil
}

func (m *memRooms) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.rows, id)
	return nil
}

// memBookings is an in-memory BookingStore whose CreateIfFree holds one
// lock across check and insert, like the SQL transaction does.
type memBookings struct {
	mu     sync.Mutex
	rooms  *memRooms
	nextID int64
	rows   []model.Booking
	err    error
}

func newMemBookings(rooms *memRooms) *memBookings { return &memBookings{rooms: rooms} }

func (m *memBookings) List(_ context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []model.Booking{}
	for _, b := range m.rows {
		if f.RoomID != nil && b.RoomID != *f.RoomID {
			continue
		}
		if f.Date != nil && b.StartTime.Format("2006-01-02") != f.Date.Format("2006-01-02") {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *memBookings) ListByRoom(ctx context.Context, roomID int64) ([]model.Booking, error) {
	return m.List(ctx, repository.BookingFilter{RoomID: &roomID})
}

func (m *memBookings) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.rows {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

func (m *memBookings) CreateIfFree(ctx context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, err := m.rooms.GetByID(ctx, b.RoomID); err != nil {
		return err
	}
	var same []model.Booking
	for _, e := range m.rows {
		if e.RoomID == b.RoomID {
			same = append(same, e)
		}
	}
	if conflicts := model.Conflicting(b.Interval(), same); len(conflicts) > 0 {
		return &repository.OverlapError{Conflicts: conflicts}
	}
	m.nextID++
	b.ID = m.nextID
	m.rows = append(m.rows, *b)
	return nil
}

func (m *memBookings) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, b := range m.rows {
		if b.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			break
		}
	}
	return nil
}

// recordingPublisher keeps every event it is handed.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}
