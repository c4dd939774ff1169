// Package service contains the business logic for the hotel booking API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/pkordes/hotel-booking/internal/cache"
	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/repo"
)

// Ledger is the per-(room, day) availability ledger.
//
// It is purely date-scoped: it never looks at a room's in-service flag. A day
// with no stored entry is available. Every write goes through ReserveRange,
// ReleaseRange, Block or Unblock.
type Ledger struct {
	store repo.Store
	cache cache.Calendar
}

// NewLedger constructs a Ledger. Pass cache.Nop{} to disable caching.
func NewLedger(store repo.Store, c cache.Calendar) *Ledger {
	return &Ledger{store: store, cache: c}
}

// IsRangeAvailable reports whether every day of rng is free for roomID.
// It always reads the store; the cache only serves calendar views.
func (l *Ledger) IsRangeAvailable(ctx context.Context, roomID int64, rng domain.DateRange) (bool, error) {
	free, err := rangeFree(ctx, l.store.Repos(), roomID, rng)
	if err != nil {
		return false, fmt.Errorf("service.Ledger.IsRangeAvailable: %w", err)
	}
	return free, nil
}

// GetRange returns one entry per day of rng in ascending order. Days with no
// stored entry are reported as available.
func (l *Ledger) GetRange(ctx context.Context, roomID int64, rng domain.DateRange) ([]domain.CalendarDate, error) {
	stored, stamp, ok := l.cache.Get(ctx, roomID, rng)
	if !ok {
		var err error
		stored, err = l.store.Repos().Ledger.ListRange(ctx, roomID, rng)
		if err != nil {
			return nil, fmt.Errorf("service.Ledger.GetRange: %w", err)
		}
		l.cache.Set(ctx, stamp, stored)
	}
	return fillRange(roomID, rng, stored), nil
}

// ReserveRange claims rng for bookingID using the repos of the caller's open
// transaction. It fails with domain.ErrConflict if any day is already taken;
// the caller must then abandon the transaction.
// The caller invalidates the calendar cache once the transaction commits.
func (l *Ledger) ReserveRange(ctx context.Context, r repo.Repos, roomID int64, rng domain.DateRange, bookingID int64) error {
	if err := r.Ledger.Reserve(ctx, roomID, rng, &bookingID); err != nil {
		return fmt.Errorf("service.Ledger.ReserveRange: %w", err)
	}
	return nil
}

// ReleaseRange frees every day owned by bookingID. Releasing twice is a no-op.
func (l *Ledger) ReleaseRange(ctx context.Context, r repo.Repos, bookingID int64) error {
	if _, err := r.Ledger.ReleaseByBooking(ctx, bookingID); err != nil {
		return fmt.Errorf("service.Ledger.ReleaseRange: %w", err)
	}
	return nil
}

// Block marks rng unavailable with no owning booking (an admin hold).
// Conflicts with bookings or other blocks exactly like a reservation does.
func (l *Ledger) Block(ctx context.Context, roomID int64, rng domain.DateRange) error {
	err := l.store.WithTx(ctx, func(r repo.Repos) error {
		return r.Ledger.Reserve(ctx, roomID, rng, nil)
	})
	if err != nil {
		return fmt.Errorf("service.Ledger.Block: %w", err)
	}
	l.Invalidate(ctx, roomID)
	return nil
}

// Unblock lifts admin holds in rng and returns how many days were freed.
// Days owned by bookings are untouched.
func (l *Ledger) Unblock(ctx context.Context, roomID int64, rng domain.DateRange) (int, error) {
	n, err := l.store.Repos().Ledger.Unblock(ctx, roomID, rng)
	if err != nil {
		return 0, fmt.Errorf("service.Ledger.Unblock: %w", err)
	}
	if n > 0 {
		l.Invalidate(ctx, roomID)
	}
	return n, nil
}

// Invalidate drops cached calendar views of roomID. Call it after any
// committed ledger write.
func (l *Ledger) Invalidate(ctx context.Context, roomID int64) {
	l.cache.Invalidate(ctx, roomID)
}

func rangeFree(ctx context.Context, r repo.Repos, roomID int64, rng domain.DateRange) (bool, error) {
	n, err := r.Ledger.CountUnavailable(ctx, roomID, rng)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// fillRange expands the stored entries of rng into one entry per day.
func fillRange(roomID int64, rng domain.DateRange, stored []domain.CalendarDate) []domain.CalendarDate {
	byDay := make(map[string]domain.CalendarDate, len(stored))
	for _, e := range stored {
		byDay[e.Day.Format(domain.DateLayout)] = e
	}

	days := make([]domain.CalendarDate, 0, rng.Nights())
	for _, d := range rng.Days() {
		if e, ok := byDay[d.Format(domain.DateLayout)]; ok {
			days = append(days, e)
			continue
		}
		days = append(days, domain.CalendarDate{RoomID: roomID, Day: d, IsAvailable: true})
	}
	return days
}
