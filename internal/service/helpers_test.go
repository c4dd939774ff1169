package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-booking/internal/cache"
	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/memstore"
	"github.com/pkordes/hotel-booking/internal/repo"
	"github.com/pkordes/hotel-booking/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires the services over a fresh in-memory store.
type fixture struct {
	store    *memstore.Store
	ledger   *service.Ledger
	bookings *service.BookingService
	rooms    *service.RoomService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, memstore.New(), cache.Nop{})
}

func newFixtureWith(t *testing.T, mem *memstore.Store, c cache.Calendar) *fixture {
	t.Helper()
	return newFixtureOver(t, mem, mem, c)
}

// newFixtureOver lets a test put a wrapper in front of the store.
func newFixtureOver(t *testing.T, mem *memstore.Store, store repo.Store, c cache.Calendar) *fixture {
	t.Helper()
	ledger := service.NewLedger(store, c)
	return &fixture{
		store:    mem,
		ledger:   ledger,
		bookings: service.NewBookingService(store, ledger, discardLogger()),
		rooms:    service.NewRoomService(store, ledger, discardLogger()),
	}
}

// addRoom creates an in-service room with capacity 2 at $100 a night.
func (f *fixture) addRoom(t *testing.T) domain.Room {
	t.Helper()
	room, err := f.store.Repos().Rooms.Create(context.Background(), domain.Room{
		Name:        "Room 1",
		Type:        domain.RoomTypeStandard,
		PriceCents:  10000,
		Capacity:    2,
		Amenities:   []string{"wifi"},
		IsAvailable: true,
	})
	require.NoError(t, err)
	return room
}

func parseDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func dates(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	rng, err := domain.NewDateRange(parseDay(t, start), parseDay(t, end))
	require.NoError(t, err)
	return rng
}

func request(roomID int64, rng domain.DateRange) domain.BookingRequest {
	return domain.BookingRequest{
		RoomID:     roomID,
		CheckIn:    rng.Start,
		CheckOut:   rng.End,
		GuestCount: 2,
		GuestName:  "Ada Lovelace",
		GuestEmail: "ada@example.com",
		GuestPhone: "555-0100",
	}
}

// scriptedStore fails the first len(failures) transactions with the scripted
// errors, then delegates to the real store.
type scriptedStore struct {
	repo.Store
	mu       sync.Mutex
	failures []error
	calls    int
}

var _ repo.Store = (*scriptedStore)(nil)

func (s *scriptedStore) WithTx(ctx context.Context, fn func(r repo.Repos) error) error {
	s.mu.Lock()
	s.calls++
	var scripted error
	if len(s.failures) > 0 {
		scripted, s.failures = s.failures[0], s.failures[1:]
	}
	s.mu.Unlock()

	if scripted != nil {
		return scripted
	}
	return s.Store.WithTx(ctx, fn)
}

// countingCache records cache traffic over a real map.
type countingCache struct {
	mu          sync.Mutex
	entries     map[cache.Stamp][]domain.CalendarDate
	gen         map[int64]int64
	hits        int
	invalidated []int64
}

var _ cache.Calendar = (*countingCache)(nil)

func newCountingCache() *countingCache {
	return &countingCache{entries: map[cache.Stamp][]domain.CalendarDate{}, gen: map[int64]int64{}}
}

func (c *countingCache) Get(_ context.Context, roomID int64, rng domain.DateRange) ([]domain.CalendarDate, cache.Stamp, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stamp := cache.Stamp{RoomID: roomID, Range: rng, Gen: c.gen[roomID]}
	days, ok := c.entries[stamp]
	if ok {
		c.hits++
	}
	return days, stamp, ok
}

func (c *countingCache) Set(_ context.Context, stamp cache.Stamp, days []domain.CalendarDate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[stamp] = days
}

func (c *countingCache) Invalidate(_ context.Context, roomID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[roomID]++
	c.invalidated = append(c.invalidated, roomID)
}
