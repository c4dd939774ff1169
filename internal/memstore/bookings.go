package memstore

import (
	"context"
	"fmt"

	"github.com/pkordes/hotel-booking/internal/domain"
)

type bookingRepo struct{ base }

func copyBooking(b domain.Booking) domain.Booking {
	if b.UserID != nil {
		id := *b.UserID
		b.UserID = &id
	}
	return b
}

func newestFirst(a, b domain.Booking) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (r *bookingRepo) Create(_ context.Context, b domain.Booking) (domain.Booking, error) {
	defer r.lock()()
	st := r.s.st
	for _, existing := range st.bookings {
		if existing.ReferenceNumber == b.ReferenceNumber {
			return domain.Booking{}, fmt.Errorf("memstore.BookingRepo.Create: %w: reference_number", domain.ErrDuplicate)
		}
	}
	if b.UserID != nil {
		if _, ok := st.users[*b.UserID]; !ok {
			return domain.Booking{}, fmt.Errorf("memstore.BookingRepo.Create: user: %w", domain.ErrNotFound)
		}
	}

	b = copyBooking(b)
	b.ID = st.id()
	b.CheckIn = domain.Day(b.CheckIn)
	b.CheckOut = domain.Day(b.CheckOut)
	b.CreatedAt = r.s.now().UTC()
	st.bookings[b.ID] = b
	return copyBooking(b), nil
}

func (r *bookingRepo) get(id int64, op string) (domain.Booking, error) {
	defer r.lock()()
	b, ok := r.s.st.bookings[id]
	if !ok {
		return domain.Booking{}, fmt.Errorf("memstore.BookingRepo.%s: %w", op, domain.ErrNotFound)
	}
	return copyBooking(b), nil
}

func (r *bookingRepo) GetByID(_ context.Context, id int64) (domain.Booking, error) {
	return r.get(id, "GetByID")
}

// GetByIDForUpdate needs no row lock: a transaction already owns the store.
func (r *bookingRepo) GetByIDForUpdate(_ context.Context, id int64) (domain.Booking, error) {
	return r.get(id, "GetByIDForUpdate")
}

func (r *bookingRepo) GetByReference(_ context.Context, reference string) (domain.Booking, error) {
	defer r.lock()()
	for _, b := range r.s.st.bookings {
		if b.ReferenceNumber == reference {
			return copyBooking(b), nil
		}
	}
	return domain.Booking{}, fmt.Errorf("memstore.BookingRepo.GetByReference: %w", domain.ErrNotFound)
}

func (r *bookingRepo) filter(keep func(domain.Booking) bool) []domain.Booking {
	out := []domain.Booking{}
	for _, b := range sortedValues(r.s.st.bookings, newestFirst) {
		if keep(b) {
			out = append(out, copyBooking(b))
		}
	}
	return out
}

func (r *bookingRepo) ListByUser(_ context.Context, userID int64) ([]domain.Booking, error) {
	defer r.lock()()
	return r.filter(func(b domain.Booking) bool {
		return b.UserID != nil && *b.UserID == userID
	}), nil
}

func (r *bookingRepo) ListByRoom(_ context.Context, roomID int64) ([]domain.Booking, error) {
	defer r.lock()()
	return r.filter(func(b domain.Booking) bool { return b.RoomID == roomID }), nil
}

func (r *bookingRepo) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	defer r.lock()()
	all := r.filter(func(domain.Booking) bool { return true })
	total := int64(len(all))

	start := min(p.Offset(), len(all))
	end := min(start+p.Limit, len(all))
	return all[start:end], total, nil
}

func (r *bookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) (domain.Booking, error) {
	defer r.lock()()
	b, ok := r.s.st.bookings[id]
	if !ok {
		return domain.Booking{}, fmt.Errorf("memstore.BookingRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	b.Status = status
	r.s.st.bookings[id] = b
	return copyBooking(b), nil
}
