package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/repo"
)

func TestBookingRepo_Create(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	room := mustCreateRoom(t, r, roomFixture())
	rng := dateRange(t, "2031-06-01", "2031-06-04")

	got, err := r.Bookings.Create(ctx, bookingFixture(room.ID, rng, "BKTEST000001"))

	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, rng.Start, got.CheckIn)
	assert.Equal(t, rng.End, got.CheckOut)
	assert.Nil(t, got.UserID, "guest booking has no user")
	assert.Equal(t, domain.BookingPending, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestBookingRepo_Create_DuplicateReference(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	room := mustCreateRoom(t, r, roomFixture())
	rng := dateRange(t, "2031-06-01", "2031-06-04")
	mustCreateBooking(t, r, bookingFixture(room.ID, rng, "BKTEST000002"))

	_, err := r.Bookings.Create(ctx, bookingFixture(room.ID, rng, "BKTEST000002"))

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestBookingRepo_GetByReferenceAndUser(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	room := mustCreateRoom(t, r, roomFixture())
	user, err := r.Users.Create(ctx, domain.User{Username: "ada", PasswordHash: "x", Email: "ada@example.com"})
	require.NoError(t, err)

	in := bookingFixture(room.ID, dateRange(t, "2031-06-01", "2031-06-04"), "BKTEST000003")
	in.UserID = &user.ID
	created := mustCreateBooking(t, r, in)

	got, err := r.Bookings.GetByReference(ctx, "BKTEST000003")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.UserID)
	assert.Equal(t, user.ID, *got.UserID)

	mine, err := r.Bookings.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	_, err = r.Bookings.GetByReference(ctx, "BKNOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepo_UpdateStatus(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	room := mustCreateRoom(t, r, roomFixture())
	b := mustCreateBooking(t, r, bookingFixture(room.ID, dateRange(t, "2031-06-01", "2031-06-04"), "BKTEST000004"))

	got, err := r.Bookings.UpdateStatus(ctx, b.ID, domain.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	locked, err := r.Bookings.GetByIDForUpdate(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, locked.Status)

	_, err = r.Bookings.UpdateStatus(ctx, -1, domain.BookingConfirmed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepo_ListByRoomAndPaged(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	room := mustCreateRoom(t, r, roomFixture())
	for i, ref := range []string{"BKTEST000005", "BKTEST000006", "BKTEST000007"} {
		start := dateRange(t, "2031-06-01", "2031-06-02").Start.AddDate(0, 0, i*3)
		rng, err := domain.NewDateRange(start, start.AddDate(0, 0, 2))
		require.NoError(t, err)
		mustCreateBooking(t, r, bookingFixture(room.ID, rng, ref))
	}

	byRoom, err := r.Bookings.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, byRoom, 3)

	page, total, err := r.Bookings.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.GreaterOrEqual(t, total, int64(3))
}

func TestStore_WithTx_RollsBackOnError(t *testing.T) {
	tx := newTestTx(t)
	store := repo.NewStore(tx)
	ctx := context.Background()
	room := mustCreateRoom(t, store.Repos(), roomFixture())

	err := store.WithTx(ctx, func(r repo.Repos) error {
		if err := r.Ledger.Reserve(ctx, room.ID, dateRange(t, "2031-06-01", "2031-06-03"), nil); err != nil {
			return err
		}
		return r.Ledger.Reserve(ctx, room.ID, dateRange(t, "2031-06-02", "2031-06-04"), nil)
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	n, err := store.Repos().Ledger.CountUnavailable(ctx, room.ID, dateRange(t, "2031-06-01", "2031-06-05"))
	require.NoError(t, err)
	assert.Zero(t, n, "first reservation must be rolled back with the second")
}
