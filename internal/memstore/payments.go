package memstore

import (
	"context"
	"fmt"

	"github.com/pkordes/hotel-booking/internal/domain"
)

type paymentRepo struct{ base }

func (r *paymentRepo) Create(_ context.Context, p domain.Payment) (domain.Payment, error) {
	defer r.lock()()
	if _, ok := r.s.st.bookings[p.BookingID]; !ok {
		return domain.Payment{}, fmt.Errorf("memstore.PaymentRepo.Create: booking: %w", domain.ErrNotFound)
	}
	p.ID = r.s.st.id()
	p.CreatedAt = r.s.now().UTC()
	r.s.st.payments[p.ID] = p
	return p, nil
}

func (r *paymentRepo) ListByBooking(_ context.Context, bookingID int64) ([]domain.Payment, error) {
	defer r.lock()()
	out := []domain.Payment{}
	for _, p := range sortedValues(r.s.st.payments, func(a, b domain.Payment) bool { return a.ID < b.ID }) {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}
