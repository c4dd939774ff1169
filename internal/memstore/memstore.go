// Package memstore is an in-memory implementation of repo.Store.
//
// It backs the service tests and lets the API run without Postgres for local
// development. Its semantics match the Postgres store: a unit of work passed to
// WithTx is atomic and isolated, ledger reservations never take over a day that
// is already unavailable, and constraint violations surface as the same domain
// errors the Postgres repos return.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/repo"
)

type ledgerKey struct {
	roomID int64
	day    time.Time
}

// state is everything the store holds. It is cloned at the start of each
// transaction and restored if the transaction fails.
type state struct {
	rooms    map[int64]domain.Room
	bookings map[int64]domain.Booking
	payments map[int64]domain.Payment
	users    map[int64]domain.User
	ledger   map[ledgerKey]domain.CalendarDate
	nextID   int64
}

func (s *state) clone() *state {
	return &state{
		rooms:    maps.Clone(s.rooms),
		bookings: maps.Clone(s.bookings),
		payments: maps.Clone(s.payments),
		users:    maps.Clone(s.users),
		ledger:   maps.Clone(s.ledger),
		nextID:   s.nextID,
	}
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

// Store is a mutex-guarded in-memory repo.Store.
// A transaction holds the mutex for its whole duration, so transactions are
// fully serialised. That is stricter than Postgres and keeps the reservation
// check-and-write trivially atomic.
type Store struct {
	mu  sync.Mutex
	now func() time.Time
	st  *state
}

var _ repo.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		now: time.Now,
		st: &state{
			rooms:    map[int64]domain.Room{},
			bookings: map[int64]domain.Booking{},
			payments: map[int64]domain.Payment{},
			users:    map[int64]domain.User{},
			ledger:   map[ledgerKey]domain.CalendarDate{},
		},
	}
}

// Repos returns repositories whose every call locks the store on its own.
func (s *Store) Repos() repo.Repos {
	return s.repos(false)
}

// WithTx runs fn while holding the store lock. If fn returns an error every
// change it made is discarded.
func (s *Store) WithTx(ctx context.Context, fn func(r repo.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memstore.Store.WithTx: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(s.repos(true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) repos(inTx bool) repo.Repos {
	b := base{s: s, inTx: inTx}
	return repo.Repos{
		Rooms:    &roomRepo{b},
		Bookings: &bookingRepo{b},
		Payments: &paymentRepo{b},
		Ledger:   &ledgerRepo{b},
		Users:    &userRepo{b},
	}
}

// base is embedded by every repo. Outside a transaction each call takes the
// store lock; inside one the lock is already held by WithTx.
type base struct {
	s    *Store
	inTx bool
}

func (b base) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}

// sortedValues returns the map's values ordered by less.
func sortedValues[K comparable, V any](m map[K]V, less func(a, b V) bool) []V {
	out := slices.Collect(maps.Values(m))
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
