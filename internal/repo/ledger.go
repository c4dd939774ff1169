package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/hotel-booking/internal/domain"
)

// LedgerRepo defines the persistence operations for the per-(room, day)
// availability ledger stored in room_dates. Days without a row are available.
type LedgerRepo interface {
	// ListRange returns the stored entries for roomID inside rng, ordered by day.
	// Days with no stored entry are omitted; callers fill them in as available.
	ListRange(ctx context.Context, roomID int64, rng domain.DateRange) ([]domain.CalendarDate, error)

	// CountUnavailable returns how many days in rng are marked unavailable.
	CountUnavailable(ctx context.Context, roomID int64, rng domain.DateRange) (int, error)

	// Reserve marks every day in rng unavailable and owned by bookingID
	// (nil for an admin block). A day already unavailable is never taken over:
	// if any day could not be claimed the whole call returns domain.ErrConflict
	// and the caller must roll back its transaction.
	Reserve(ctx context.Context, roomID int64, rng domain.DateRange, bookingID *int64) error

	// ReleaseByBooking marks every day owned by bookingID available again and
	// clears the owner. It returns the number of days released; releasing a
	// booking that owns nothing is not an error.
	ReleaseByBooking(ctx context.Context, bookingID int64) (int, error)

	// Unblock releases admin blocks (unavailable days with no owner) in rng.
	// Days owned by bookings are left alone.
	Unblock(ctx context.Context, roomID int64, rng domain.DateRange) (int, error)
}

// pgLedgerRepo is the Postgres implementation of LedgerRepo.
type pgLedgerRepo struct {
	db db
}

// NewLedgerRepo constructs a LedgerRepo backed by the provided db connection.
func NewLedgerRepo(db db) LedgerRepo {
	return &pgLedgerRepo{db: db}
}

func (r *pgLedgerRepo) ListRange(ctx context.Context, roomID int64, rng domain.DateRange) ([]domain.CalendarDate, error) {
	const q = `
		SELECT room_id, day, is_available, booking_id
		FROM room_dates
		WHERE room_id = @room_id AND day >= @start AND day < @end
		ORDER BY day`

	rows, err := r.db.Query(ctx, q, rangeArgs(roomID, rng))
	if err != nil {
		return nil, fmt.Errorf("repo.LedgerRepo.ListRange: %w", err)
	}
	defer rows.Close()

	entries := []domain.CalendarDate{}
	for rows.Next() {
		var (
			e         domain.CalendarDate
			day       pgtype.Date
			bookingID pgtype.Int8
		)
		if err := rows.Scan(&e.RoomID, &day, &e.IsAvailable, &bookingID); err != nil {
			return nil, fmt.Errorf("repo.LedgerRepo.ListRange: scan: %w", err)
		}
		e.Day = domain.Day(day.Time)
		if bookingID.Valid {
			id := bookingID.Int64
			e.BookingID = &id
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LedgerRepo.ListRange: rows: %w", err)
	}
	return entries, nil
}

func (r *pgLedgerRepo) CountUnavailable(ctx context.Context, roomID int64, rng domain.DateRange) (int, error) {
	const q = `
		SELECT count(*)
		FROM room_dates
		WHERE room_id = @room_id AND day >= @start AND day < @end AND NOT is_available`

	var n int
	if err := r.db.QueryRow(ctx, q, rangeArgs(roomID, rng)).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.LedgerRepo.CountUnavailable: %w", err)
	}
	return n, nil
}

// Reserve claims the whole range in one statement. The (room_id, day) primary
// key serialises concurrent claims: a second writer blocks on the conflicting
// row until the first commits, then the DO UPDATE's WHERE sees the day taken and
// skips it. A short affected-row count therefore means another owner got there
// first.
func (r *pgLedgerRepo) Reserve(ctx context.Context, roomID int64, rng domain.DateRange, bookingID *int64) error {
	const q = `
		INSERT INTO room_dates (room_id, day, is_available, booking_id)
		SELECT @room_id, gs::date, false, @booking_id
		FROM generate_series(@start::date::timestamp, (@end::date - 1)::timestamp, interval '1 day') AS gs
		ON CONFLICT (room_id, day) DO UPDATE
		SET is_available = false,
		    booking_id   = EXCLUDED.booking_id
		WHERE room_dates.is_available`

	args := rangeArgs(roomID, rng)
	args["booking_id"] = bookingID

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.LedgerRepo.Reserve: %w", mapPgError(err))
	}
	if got, want := tag.RowsAffected(), int64(rng.Nights()); got != want {
		return fmt.Errorf("repo.LedgerRepo.Reserve: claimed %d of %d days: %w", got, want, domain.ErrConflict)
	}
	return nil
}

func (r *pgLedgerRepo) ReleaseByBooking(ctx context.Context, bookingID int64) (int, error) {
	const q = `
		UPDATE room_dates
		SET is_available = true, booking_id = NULL
		WHERE booking_id = @booking_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"booking_id": bookingID})
	if err != nil {
		return 0, fmt.Errorf("repo.LedgerRepo.ReleaseByBooking: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *pgLedgerRepo) Unblock(ctx context.Context, roomID int64, rng domain.DateRange) (int, error) {
	const q = `
		UPDATE room_dates
		SET is_available = true
		WHERE room_id = @room_id AND day >= @start AND day < @end
		  AND NOT is_available AND booking_id IS NULL`

	tag, err := r.db.Exec(ctx, q, rangeArgs(roomID, rng))
	if err != nil {
		return 0, fmt.Errorf("repo.LedgerRepo.Unblock: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func rangeArgs(roomID int64, rng domain.DateRange) pgx.NamedArgs {
	return pgx.NamedArgs{
		"room_id": roomID,
		"start":   rng.Start,
		"end":     rng.End,
	}
}
