package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/repo"
	"github.com/pkordes/hotel-booking/testutil"
)

// newTestTx opens a transaction against the test database that is rolled back
// when the test finishes, giving free per-test isolation.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// newTestRepos returns every repo bound to a rolled-back test transaction.
func newTestRepos(t *testing.T) repo.Repos {
	t.Helper()
	return repo.NewRepos(newTestTx(t))
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func dateRange(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	rng, err := domain.NewDateRange(day(t, start), day(t, end))
	require.NoError(t, err)
	return rng
}

// roomFixture returns a domain.Room with sensible defaults.
// Callers can override individual fields after calling this function.
func roomFixture() domain.Room {
	return domain.Room{
		Name:        "Room 101",
		Description: "Quiet room facing the courtyard",
		Type:        domain.RoomTypeStandard,
		PriceCents:  10000,
		Capacity:    2,
		Amenities:   []string{"wifi", "tv"},
		IsAvailable: true,
	}
}

func mustCreateRoom(t *testing.T, r repo.Repos, room domain.Room) domain.Room {
	t.Helper()
	got, err := r.Rooms.Create(context.Background(), room)
	require.NoError(t, err)
	return got
}

func bookingFixture(roomID int64, rng domain.DateRange, ref string) domain.Booking {
	return domain.Booking{
		RoomID:          roomID,
		CheckIn:         rng.Start,
		CheckOut:        rng.End,
		GuestCount:      2,
		GuestName:       "Ada Lovelace",
		GuestEmail:      "ada@example.com",
		GuestPhone:      "555-0100",
		Status:          domain.BookingPending,
		TotalCents:      39760,
		ReferenceNumber: ref,
	}
}

func mustCreateBooking(t *testing.T, r repo.Repos, b domain.Booking) domain.Booking {
	t.Helper()
	got, err := r.Bookings.Create(context.Background(), b)
	require.NoError(t, err)
	return got
}
