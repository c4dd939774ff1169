package memstore

import (
	"context"
	"fmt"

	"github.com/pkordes/hotel-booking/internal/domain"
)

type ledgerRepo struct{ base }

func copyEntry(e domain.CalendarDate) domain.CalendarDate {
	if e.BookingID != nil {
		id := *e.BookingID
		e.BookingID = &id
	}
	return e
}

// unavailableDays counts the taken days of roomID inside rng.
// Callers must hold the store lock.
func (s *state) unavailableDays(roomID int64, rng domain.DateRange) int {
	n := 0
	for _, d := range rng.Days() {
		if e, ok := s.ledger[ledgerKey{roomID, d}]; ok && !e.IsAvailable {
			n++
		}
	}
	return n
}

func (r *ledgerRepo) ListRange(_ context.Context, roomID int64, rng domain.DateRange) ([]domain.CalendarDate, error) {
	defer r.lock()()
	out := []domain.CalendarDate{}
	for _, d := range rng.Days() {
		if e, ok := r.s.st.ledger[ledgerKey{roomID, d}]; ok {
			out = append(out, copyEntry(e))
		}
	}
	return out, nil
}

func (r *ledgerRepo) CountUnavailable(_ context.Context, roomID int64, rng domain.DateRange) (int, error) {
	defer r.lock()()
	return r.s.st.unavailableDays(roomID, rng), nil
}

// Reserve is all-or-nothing even outside a transaction: nothing is written
// unless every day in the range is free.
func (r *ledgerRepo) Reserve(_ context.Context, roomID int64, rng domain.DateRange, bookingID *int64) error {
	defer r.lock()()
	st := r.s.st
	if _, ok := st.rooms[roomID]; !ok {
		return fmt.Errorf("memstore.LedgerRepo.Reserve: room: %w", domain.ErrNotFound)
	}
	if bookingID != nil {
		if _, ok := st.bookings[*bookingID]; !ok {
			return fmt.Errorf("memstore.LedgerRepo.Reserve: booking: %w", domain.ErrNotFound)
		}
	}
	if n := st.unavailableDays(roomID, rng); n > 0 {
		return fmt.Errorf("memstore.LedgerRepo.Reserve: %d of %d days taken: %w", n, rng.Nights(), domain.ErrConflict)
	}

	for _, d := range rng.Days() {
		st.ledger[ledgerKey{roomID, d}] = copyEntry(domain.CalendarDate{
			RoomID:      roomID,
			Day:         d,
			IsAvailable: false,
			BookingID:   bookingID,
		})
	}
	return nil
}

func (r *ledgerRepo) ReleaseByBooking(_ context.Context, bookingID int64) (int, error) {
	defer r.lock()()
	n := 0
	for k, e := range r.s.st.ledger {
		if e.BookingID != nil && *e.BookingID == bookingID {
			e.IsAvailable = true
			e.BookingID = nil
			r.s.st.ledger[k] = e
			n++
		}
	}
	return n, nil
}

func (r *ledgerRepo) Unblock(_ context.Context, roomID int64, rng domain.DateRange) (int, error) {
	defer r.lock()()
	n := 0
	for _, d := range rng.Days() {
		k := ledgerKey{roomID, d}
		if e, ok := r.s.st.ledger[k]; ok && e.Blocked() {
			e.IsAvailable = true
			r.s.st.ledger[k] = e
			n++
		}
	}
	return n, nil
}
