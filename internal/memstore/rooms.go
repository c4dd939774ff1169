package memstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/pkordes/hotel-booking/internal/domain"
)

type roomRepo struct{ base }

func copyRoom(r domain.Room) domain.Room {
	r.Amenities = slices.Clone(r.Amenities)
	if r.Amenities == nil {
		r.Amenities = []string{}
	}
	if r.Rating != nil {
		v := *r.Rating
		r.Rating = &v
	}
	return r
}

func (r *roomRepo) Create(_ context.Context, room domain.Room) (domain.Room, error) {
	defer r.lock()()
	room = copyRoom(room)
	room.ID = r.s.st.id()
	r.s.st.rooms[room.ID] = room
	return copyRoom(room), nil
}

func (r *roomRepo) GetByID(_ context.Context, id int64) (domain.Room, error) {
	defer r.lock()()
	room, ok := r.s.st.rooms[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("memstore.RoomRepo.GetByID: %w", domain.ErrNotFound)
	}
	return copyRoom(room), nil
}

func (r *roomRepo) List(_ context.Context) ([]domain.Room, error) {
	defer r.lock()()
	rooms := sortedValues(r.s.st.rooms, func(a, b domain.Room) bool { return a.ID < b.ID })
	for i := range rooms {
		rooms[i] = copyRoom(rooms[i])
	}
	return rooms, nil
}

func (r *roomRepo) Search(_ context.Context, q domain.RoomSearch) ([]domain.Room, error) {
	defer r.lock()()
	rooms := sortedValues(r.s.st.rooms, func(a, b domain.Room) bool {
		if a.PriceCents != b.PriceCents {
			return a.PriceCents < b.PriceCents
		}
		return a.ID < b.ID
	})

	out := []domain.Room{}
	for _, room := range rooms {
		if !matches(room, q) || r.s.st.unavailableDays(room.ID, q.Range) > 0 {
			continue
		}
		out = append(out, copyRoom(room))
	}
	return out, nil
}

func matches(room domain.Room, q domain.RoomSearch) bool {
	switch {
	case !room.IsAvailable:
		return false
	case room.Capacity < q.Guests:
		return false
	case q.Type != "" && room.Type != q.Type:
		return false
	case q.MinPriceCents != nil && room.PriceCents < *q.MinPriceCents:
		return false
	case q.MaxPriceCents != nil && room.PriceCents > *q.MaxPriceCents:
		return false
	}
	for _, a := range q.Amenities {
		if !slices.Contains(room.Amenities, a) {
			return false
		}
	}
	return true
}

func (r *roomRepo) Update(_ context.Context, room domain.Room) (domain.Room, error) {
	defer r.lock()()
	if _, ok := r.s.st.rooms[room.ID]; !ok {
		return domain.Room{}, fmt.Errorf("memstore.RoomRepo.Update: %w", domain.ErrNotFound)
	}
	room = copyRoom(room)
	r.s.st.rooms[room.ID] = room
	return copyRoom(room), nil
}

func (r *roomRepo) SetAvailability(_ context.Context, id int64, available bool) (domain.Room, error) {
	defer r.lock()()
	room, ok := r.s.st.rooms[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("memstore.RoomRepo.SetAvailability: %w", domain.ErrNotFound)
	}
	room.IsAvailable = available
	r.s.st.rooms[id] = room
	return copyRoom(room), nil
}

// Delete removes the room and its ledger entries. Bookings are kept.
func (r *roomRepo) Delete(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.s.st.rooms[id]; !ok {
		return fmt.Errorf("memstore.RoomRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.st.rooms, id)
	for k := range r.s.st.ledger {
		if k.roomID == id {
			delete(r.s.st.ledger, k)
		}
	}
	return nil
}
