package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/hotel-booking/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
// Bookings are never deleted.
type BookingRepo interface {
	// Create inserts a booking and returns it with id and created_at populated.
	// Returns domain.ErrDuplicate if the reference number is already taken.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID retrieves a booking. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (domain.Booking, error)

	// GetByIDForUpdate retrieves a booking and locks its row until the enclosing
	// transaction ends, so concurrent status changes on it are serialised.
	GetByIDForUpdate(ctx context.Context, id int64) (domain.Booking, error)

	// GetByReference retrieves a booking by its reference number.
	GetByReference(ctx context.Context, reference string) (domain.Booking, error)

	// ListByUser returns a user's bookings, newest first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)

	// ListByRoom returns a room's bookings, newest first.
	ListByRoom(ctx context.Context, roomID int64) ([]domain.Booking, error)

	// ListPaged returns one page of all bookings, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)

	// UpdateStatus sets the status of a booking and returns the updated record.
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (domain.Booking, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, room_id, user_id, check_in, check_out, guest_count, guest_name,
	guest_email, guest_phone, special_requests, status, total_cents, reference_number, created_at`

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (room_id, user_id, check_in, check_out, guest_count, guest_name,
			guest_email, guest_phone, special_requests, status, total_cents, reference_number)
		VALUES (@room_id, @user_id, @check_in, @check_out, @guest_count, @guest_name,
			@guest_email, @guest_phone, @special_requests, @status, @total_cents, @reference_number)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"room_id":          b.RoomID,
		"user_id":          b.UserID, // nil becomes NULL for guest bookings
		"check_in":         b.CheckIn,
		"check_out":        b.CheckOut,
		"guest_count":      b.GuestCount,
		"guest_name":       b.GuestName,
		"guest_email":      b.GuestEmail,
		"guest_phone":      b.GuestPhone,
		"special_requests": b.SpecialRequests,
		"status":           string(b.Status),
		"total_cents":      b.TotalCents,
		"reference_number": b.ReferenceNumber,
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgBookingRepo) GetByID(ctx context.Context, id int64) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgBookingRepo) GetByIDForUpdate(ctx context.Context, id int64) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id FOR UPDATE`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByIDForUpdate: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgBookingRepo) GetByReference(ctx context.Context, reference string) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE reference_number = @reference`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"reference": reference}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByReference: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgBookingRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByUser: %w", err)
	}
	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByUser: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) ListByRoom(ctx context.Context, roomID int64) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = @room_id
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"room_id": roomID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByRoom: %w", err)
	}
	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByRoom: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	const countQ = `SELECT count(*) FROM bookings`
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: %w", err)
	}
	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: %w", err)
	}
	return bookings, total, nil
}

func (r *pgBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (domain.Booking, error) {
	const q = `
		UPDATE bookings SET status = @status
		WHERE id = @id
		RETURNING ` + bookingColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)})
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", mapPgError(err))
	}
	return result, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return bookings, nil
}

// scanBooking maps a single database row into a domain.Booking.
// It handles the nullable user_id and the DATE columns.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b        domain.Booking
		userID   pgtype.Int8
		checkIn  pgtype.Date
		checkOut pgtype.Date
		status   string
	)
	err := s.Scan(&b.ID, &b.RoomID, &userID, &checkIn, &checkOut, &b.GuestCount, &b.GuestName,
		&b.GuestEmail, &b.GuestPhone, &b.SpecialRequests, &status, &b.TotalCents,
		&b.ReferenceNumber, &b.CreatedAt)
	if err != nil {
		return domain.Booking{}, err
	}

	if userID.Valid {
		id := userID.Int64
		b.UserID = &id
	}
	b.CheckIn = domain.Day(checkIn.Time)
	b.CheckOut = domain.Day(checkOut.Time)
	b.Status = domain.BookingStatus(status)
	return b, nil
}
