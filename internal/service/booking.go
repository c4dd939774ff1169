package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/repo"
)

// maxReferenceAttempts bounds retries after a reference number collision.
const maxReferenceAttempts = 3

// BookingService implements the booking lifecycle:
// pending -> confirmed (payment), pending|confirmed -> cancelled (releases dates),
// any -> completed (admin). Only cancellation ever releases ledger days.
type BookingService struct {
	store  repo.Store
	ledger *Ledger
	logger *slog.Logger
	now    func() time.Time
}

// NewBookingService constructs a BookingService.
func NewBookingService(store repo.Store, ledger *Ledger, logger *slog.Logger) *BookingService {
	return &BookingService{store: store, ledger: ledger, logger: logger, now: time.Now}
}

// Create validates req, then inserts a pending booking and reserves its dates
// as one transaction. A reservation conflict is retried once, re-running the
// availability check, before domain.ErrConflict is returned.
//
// Returns domain.ErrValidation for bad input (including too many guests),
// domain.ErrNotFound if the room does not exist and domain.ErrConflict if the
// room is out of service or any night is taken.
func (s *BookingService) Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	rng, err := validateBookingRequest(req)
	if err != nil {
		return domain.Booking{}, err
	}

	room, err := s.store.Repos().Rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	if req.GuestCount > room.Capacity {
		return domain.Booking{}, fmt.Errorf("%w: room %d holds at most %d guests", domain.ErrValidation, room.ID, room.Capacity)
	}
	if !room.IsAvailable {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: room out of service: %w", domain.ErrConflict)
	}

	total := domain.QuoteStay(room.PriceCents, rng.Nights()).TotalCents

	var (
		booking         domain.Booking
		referenceTries  int
		retriedConflict bool
	)
	for {
		referenceTries++
		booking, err = s.createOnce(ctx, req, rng, total)

		switch {
		case err == nil:
			s.ledger.Invalidate(ctx, room.ID)
			s.logger.InfoContext(ctx, "booking created",
				"booking_id", booking.ID, "reference", booking.ReferenceNumber,
				"room_id", room.ID, "range", rng.String())
			return booking, nil

		case errors.Is(err, domain.ErrDuplicate) && referenceTries < maxReferenceAttempts:
			s.logger.WarnContext(ctx, "booking reference collision, retrying", "room_id", room.ID)

		case errors.Is(err, domain.ErrConflict) && !retriedConflict:
			retriedConflict = true
			s.logger.InfoContext(ctx, "booking dates conflicted, retrying once",
				"room_id", room.ID, "range", rng.String())

		default:
			return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
		}
	}
}

// createOnce is one attempt at the booking transaction.
func (s *BookingService) createOnce(ctx context.Context, req domain.BookingRequest, rng domain.DateRange, total int64) (domain.Booking, error) {
	var created domain.Booking
	err := s.store.WithTx(ctx, func(r repo.Repos) error {
		free, err := rangeFree(ctx, r, req.RoomID, rng)
		if err != nil {
			return err
		}
		if !free {
			return domain.ErrConflict
		}

		created, err = r.Bookings.Create(ctx, domain.Booking{
			RoomID:          req.RoomID,
			UserID:          req.UserID,
			CheckIn:         rng.Start,
			CheckOut:        rng.End,
			GuestCount:      req.GuestCount,
			GuestName:       strings.TrimSpace(req.GuestName),
			GuestEmail:      strings.TrimSpace(req.GuestEmail),
			GuestPhone:      strings.TrimSpace(req.GuestPhone),
			SpecialRequests: req.SpecialRequests,
			Status:          domain.BookingPending,
			TotalCents:      total,
			ReferenceNumber: newReference(s.now()),
		})
		if err != nil {
			return err
		}
		return s.ledger.ReserveRange(ctx, r, req.RoomID, rng, created.ID)
	})
	return created, err
}

// ConfirmPayment records a completed payment for a pending booking and moves
// it to confirmed. Returns domain.ErrIllegalTransition for any other status.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID, amountCents int64, method string) (domain.Booking, domain.Payment, error) {
	if amountCents <= 0 {
		return domain.Booking{}, domain.Payment{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return domain.Booking{}, domain.Payment{}, fmt.Errorf("%w: payment method is required", domain.ErrValidation)
	}

	var (
		booking domain.Booking
		payment domain.Payment
	)
	err := s.store.WithTx(ctx, func(r repo.Repos) error {
		b, err := r.Bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != domain.BookingPending {
			return fmt.Errorf("%w: cannot confirm a %s booking", domain.ErrIllegalTransition, b.Status)
		}

		payment, err = r.Payments.Create(ctx, domain.Payment{
			BookingID:     b.ID,
			AmountCents:   amountCents,
			Status:        domain.PaymentCompleted,
			Method:        method,
			TransactionID: "txn_" + uuid.NewString(),
		})
		if err != nil {
			return err
		}
		booking, err = r.Bookings.UpdateStatus(ctx, b.ID, domain.BookingConfirmed)
		return err
	})
	if err != nil {
		return domain.Booking{}, domain.Payment{}, fmt.Errorf("service.BookingService.ConfirmPayment: %w", err)
	}

	s.logger.InfoContext(ctx, "booking confirmed", "booking_id", booking.ID, "payment_id", payment.ID)
	return booking, payment, nil
}

// Cancel moves a pending or confirmed booking to cancelled and releases its
// dates in the same transaction. Cancelled and completed bookings are
// rejected with domain.ErrIllegalTransition and the ledger is not touched.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64) (domain.Booking, error) {
	booking, err := s.cancel(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Cancel: %w", err)
	}
	return booking, nil
}

func (s *BookingService) cancel(ctx context.Context, bookingID int64) (domain.Booking, error) {
	var booking domain.Booking
	err := s.store.WithTx(ctx, func(r repo.Repos) error {
		b, err := r.Bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status.IsTerminal() {
			return fmt.Errorf("%w: booking is already %s", domain.ErrIllegalTransition, b.Status)
		}

		booking, err = r.Bookings.UpdateStatus(ctx, b.ID, domain.BookingCancelled)
		if err != nil {
			return err
		}
		return s.ledger.ReleaseRange(ctx, r, b.ID)
	})
	if err != nil {
		return domain.Booking{}, err
	}

	s.ledger.Invalidate(ctx, booking.RoomID)
	s.logger.InfoContext(ctx, "booking cancelled", "booking_id", booking.ID, "room_id", booking.RoomID)
	return booking, nil
}

// SetStatus is the administrative status override.
//
// Setting cancelled behaves exactly like Cancel. A cancelled booking cannot be
// moved back to a live status because its dates may already belong to someone
// else. Every other change is applied directly and never touches the ledger.
func (s *BookingService) SetStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (domain.Booking, error) {
	if !status.Valid() {
		return domain.Booking{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	if status == domain.BookingCancelled {
		booking, err := s.cancel(ctx, bookingID)
		if err != nil {
			return domain.Booking{}, fmt.Errorf("service.BookingService.SetStatus: %w", err)
		}
		return booking, nil
	}

	var booking domain.Booking
	err := s.store.WithTx(ctx, func(r repo.Repos) error {
		b, err := r.Bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		// A cancelled booking's days are released, so it may only be closed out.
		if b.Status == domain.BookingCancelled && status != domain.BookingCompleted {
			return fmt.Errorf("%w: cancelled bookings cannot be reactivated", domain.ErrIllegalTransition)
		}
		booking, err = r.Bookings.UpdateStatus(ctx, b.ID, status)
		return err
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.SetStatus: %w", err)
	}

	s.logger.InfoContext(ctx, "booking status set", "booking_id", booking.ID, "status", status)
	return booking, nil
}

// GetByID returns a single booking. Returns domain.ErrNotFound if absent.
func (s *BookingService) GetByID(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := s.store.Repos().Bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByID: %w", err)
	}
	return b, nil
}

// GetByReference returns the booking with the given reference number.
func (s *BookingService) GetByReference(ctx context.Context, reference string) (domain.Booking, error) {
	b, err := s.store.Repos().Bookings.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(reference)))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByReference: %w", err)
	}
	return b, nil
}

// ListByUser returns a user's bookings, newest first.
func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	bookings, err := s.store.Repos().Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListByUser: %w", err)
	}
	return bookings, nil
}

// ListAll returns one page of every booking and the total count.
func (s *BookingService) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	bookings, total, err := s.store.Repos().Bookings.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.ListAll: %w", err)
	}
	return bookings, total, nil
}

// ListPayments returns the payments recorded against a booking.
// Returns domain.ErrNotFound if the booking does not exist.
func (s *BookingService) ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	r := s.store.Repos()
	if _, err := r.Bookings.GetByID(ctx, bookingID); err != nil {
		return nil, fmt.Errorf("service.BookingService.ListPayments: %w", err)
	}
	payments, err := r.Payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListPayments: %w", err)
	}
	return payments, nil
}

// validateBookingRequest checks the request shape before any store access.
func validateBookingRequest(req domain.BookingRequest) (domain.DateRange, error) {
	rng, err := domain.NewDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return domain.DateRange{}, err
	}
	if req.GuestCount < 1 {
		return domain.DateRange{}, fmt.Errorf("%w: guest count must be at least 1", domain.ErrValidation)
	}
	if strings.TrimSpace(req.GuestName) == "" {
		return domain.DateRange{}, fmt.Errorf("%w: guest name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(req.GuestPhone) == "" {
		return domain.DateRange{}, fmt.Errorf("%w: guest phone is required", domain.ErrValidation)
	}
	if !validEmail(req.GuestEmail) {
		return domain.DateRange{}, fmt.Errorf("%w: guest email is invalid", domain.ErrValidation)
	}
	return rng, nil
}
