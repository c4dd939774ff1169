package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/hotel-booking/internal/domain"
)

// PaymentRepo defines the persistence operations for Payments.
type PaymentRepo interface {
	// Create records a payment. Returns domain.ErrNotFound if the booking is absent.
	Create(ctx context.Context, p domain.Payment) (domain.Payment, error)

	// ListByBooking returns the payments of a booking, oldest first.
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
}

// pgPaymentRepo is the Postgres implementation of PaymentRepo.
type pgPaymentRepo struct {
	db db
}

// NewPaymentRepo constructs a PaymentRepo backed by the provided db connection.
func NewPaymentRepo(db db) PaymentRepo {
	return &pgPaymentRepo{db: db}
}

const paymentColumns = `id, booking_id, amount_cents, status, method, transaction_id, created_at`

func (r *pgPaymentRepo) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	const q = `
		INSERT INTO payments (booking_id, amount_cents, status, method, transaction_id)
		VALUES (@booking_id, @amount_cents, @status, @method, @transaction_id)
		RETURNING ` + paymentColumns

	args := pgx.NamedArgs{
		"booking_id":     p.BookingID,
		"amount_cents":   p.AmountCents,
		"status":         string(p.Status),
		"method":         p.Method,
		"transaction_id": p.TransactionID,
	}

	result, err := scanPayment(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgPaymentRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	const q = `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = @booking_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("repo.PaymentRepo.ListByBooking: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PaymentRepo.ListByBooking: scan: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PaymentRepo.ListByBooking: rows: %w", err)
	}
	return payments, nil
}

func scanPayment(s scanner) (domain.Payment, error) {
	var (
		p      domain.Payment
		status string
	)
	if err := s.Scan(&p.ID, &p.BookingID, &p.AmountCents, &status, &p.Method,
		&p.TransactionID, &p.CreatedAt); err != nil {
		return domain.Payment{}, err
	}
	p.Status = domain.PaymentStatus(status)
	return p, nil
}
