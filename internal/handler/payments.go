package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/hotel-booking/internal/auth"
	"github.com/pkordes/hotel-booking/internal/domain"
)

// Payment is the wire representation of a recorded payment.
type Payment struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"booking_id"`
	AmountCents   int64     `json:"amount_cents"`
	Status        string    `json:"status"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentRequest is the body of POST /api/payments.
type PaymentRequest struct {
	BookingID   int64  `json:"booking_id" validate:"gt=0"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Method      string `json:"payment_method" validate:"required"`
}

// PaymentResponse is returned once a payment confirms its booking.
type PaymentResponse struct {
	Payment Payment `json:"payment"`
	Booking Booking `json:"booking"`
}

// CreatePayment handles POST /api/payments.
// Anyone who may view the booking may pay for it.
func (s *Server) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var body PaymentRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	b, err := s.bookings.GetByID(r.Context(), body.BookingID)
	if err != nil {
		s.serviceError(w, r, err, "booking not found")
		return
	}
	if !auth.CanView(auth.PrincipalFrom(r.Context()), b.UserID) {
		forbidden(w)
		return
	}

	confirmed, payment, err := s.bookings.ConfirmPayment(r.Context(), body.BookingID, body.AmountCents, body.Method)
	if err != nil {
		s.serviceError(w, r, err, "booking not found")
		return
	}
	writeJSON(w, http.StatusCreated, PaymentResponse{
		Payment: paymentToResponse(payment),
		Booking: bookingToResponse(confirmed),
	})
}

// ListBookingPayments handles GET /api/payments/booking/{id}.
func (s *Server) ListBookingPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	b, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "booking not found")
		return
	}
	if !auth.CanView(auth.PrincipalFrom(r.Context()), b.UserID) {
		forbidden(w)
		return
	}

	payments, err := s.bookings.ListPayments(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "booking not found")
		return
	}
	data := make([]Payment, len(payments))
	for i, p := range payments {
		data[i] = paymentToResponse(p)
	}
	writeJSON(w, http.StatusOK, data)
}

func paymentToResponse(p domain.Payment) Payment {
	return Payment{
		ID:            p.ID,
		BookingID:     p.BookingID,
		AmountCents:   p.AmountCents,
		Status:        string(p.Status),
		Method:        p.Method,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
	}
}
