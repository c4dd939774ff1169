package domain

import "time"

// PaymentStatus records the outcome of a payment attempt.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment is a recorded payment against a booking.
// Payments are simulated: every recorded payment completes.
type Payment struct {
	ID            int64
	BookingID     int64
	AmountCents   int64
	Status        PaymentStatus
	Method        string
	TransactionID string
	CreatedAt     time.Time
}
