package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/repo"
)

// RoomService implements room management, search and availability queries.
//
// A room is bookable for a range only if its in-service flag is set AND the
// ledger has no unavailable day in the range. The flag is checked here and in
// BookingService; the ledger never looks at it.
type RoomService struct {
	store  repo.Store
	ledger *Ledger
	logger *slog.Logger
}

// NewRoomService constructs a RoomService.
func NewRoomService(store repo.Store, ledger *Ledger, logger *slog.Logger) *RoomService {
	return &RoomService{store: store, ledger: ledger, logger: logger}
}

// Create validates and persists a new room.
func (s *RoomService) Create(ctx context.Context, room domain.Room) (domain.Room, error) {
	if err := validateRoom(room); err != nil {
		return domain.Room{}, err
	}
	room.Name = strings.TrimSpace(room.Name)
	result, err := s.store.Repos().Rooms.Create(ctx, room)
	if err != nil {
		return domain.Room{}, fmt.Errorf("service.RoomService.Create: %w", err)
	}
	s.logger.InfoContext(ctx, "room created", "room_id", result.ID)
	return result, nil
}

// Update validates and overwrites an existing room.
// Returns domain.ErrNotFound if the room does not exist.
func (s *RoomService) Update(ctx context.Context, room domain.Room) (domain.Room, error) {
	if err := validateRoom(room); err != nil {
		return domain.Room{}, err
	}
	room.Name = strings.TrimSpace(room.Name)
	result, err := s.store.Repos().Rooms.Update(ctx, room)
	if err != nil {
		return domain.Room{}, fmt.Errorf("service.RoomService.Update: %w", err)
	}
	return result, nil
}

// Get returns a single room. Returns domain.ErrNotFound if absent.
func (s *RoomService) Get(ctx context.Context, id int64) (domain.Room, error) {
	room, err := s.store.Repos().Rooms.GetByID(ctx, id)
	if err != nil {
		return domain.Room{}, fmt.Errorf("service.RoomService.Get: %w", err)
	}
	return room, nil
}

// List returns every room, including those out of service.
func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.store.Repos().Rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RoomService.List: %w", err)
	}
	return rooms, nil
}

// Delete removes a room and its ledger entries. Its bookings are kept.
func (s *RoomService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Repos().Rooms.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.RoomService.Delete: %w", err)
	}
	s.ledger.Invalidate(ctx, id)
	s.logger.InfoContext(ctx, "room deleted", "room_id", id)
	return nil
}

// SetAvailability flips the room's in-service flag. The ledger is untouched:
// existing reservations stay, and no new booking is accepted while the flag is off.
func (s *RoomService) SetAvailability(ctx context.Context, id int64, available bool) (domain.Room, error) {
	room, err := s.store.Repos().Rooms.SetAvailability(ctx, id, available)
	if err != nil {
		return domain.Room{}, fmt.Errorf("service.RoomService.SetAvailability: %w", err)
	}
	s.logger.InfoContext(ctx, "room availability set", "room_id", id, "available", available)
	return room, nil
}

// Search returns in-service rooms that fit the guest count and filters and are
// free for every night of the range, cheapest first.
func (s *RoomService) Search(ctx context.Context, q domain.RoomSearch) ([]domain.Room, error) {
	if q.Range.Nights() < 1 {
		return nil, fmt.Errorf("%w: a date range is required", domain.ErrValidation)
	}
	if q.Guests < 1 {
		return nil, fmt.Errorf("%w: guests must be at least 1", domain.ErrValidation)
	}
	if q.Type != "" && !q.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown room type %q", domain.ErrValidation, q.Type)
	}
	if q.MinPriceCents != nil && q.MaxPriceCents != nil && *q.MinPriceCents > *q.MaxPriceCents {
		return nil, fmt.Errorf("%w: min price exceeds max price", domain.ErrValidation)
	}
	rooms, err := s.store.Repos().Rooms.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service.RoomService.Search: %w", err)
	}
	return rooms, nil
}

// CheckAvailability reports whether the room can be booked for rng, together
// with the per-day calendar. Returns domain.ErrNotFound if the room is absent.
func (s *RoomService) CheckAvailability(ctx context.Context, roomID int64, rng domain.DateRange) (domain.Availability, error) {
	room, err := s.store.Repos().Rooms.GetByID(ctx, roomID)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("service.RoomService.CheckAvailability: %w", err)
	}
	days, err := s.ledger.GetRange(ctx, roomID, rng)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("service.RoomService.CheckAvailability: %w", err)
	}

	free := true
	for _, d := range days {
		if !d.IsAvailable {
			free = false
			break
		}
	}
	return domain.Availability{
		RoomID:        roomID,
		Range:         rng,
		Available:     room.IsAvailable && free,
		RoomInService: room.IsAvailable,
		Days:          days,
	}, nil
}

// BlockDates places an admin hold on rng. Returns domain.ErrConflict if any
// day is already booked or blocked.
func (s *RoomService) BlockDates(ctx context.Context, roomID int64, rng domain.DateRange) error {
	if _, err := s.store.Repos().Rooms.GetByID(ctx, roomID); err != nil {
		return fmt.Errorf("service.RoomService.BlockDates: %w", err)
	}
	if err := s.ledger.Block(ctx, roomID, rng); err != nil {
		return fmt.Errorf("service.RoomService.BlockDates: %w", err)
	}
	s.logger.InfoContext(ctx, "room dates blocked", "room_id", roomID, "range", rng.String())
	return nil
}

// UnblockDates lifts admin holds in rng and returns how many days were freed.
func (s *RoomService) UnblockDates(ctx context.Context, roomID int64, rng domain.DateRange) (int, error) {
	if _, err := s.store.Repos().Rooms.GetByID(ctx, roomID); err != nil {
		return 0, fmt.Errorf("service.RoomService.UnblockDates: %w", err)
	}
	n, err := s.ledger.Unblock(ctx, roomID, rng)
	if err != nil {
		return 0, fmt.Errorf("service.RoomService.UnblockDates: %w", err)
	}
	s.logger.InfoContext(ctx, "room dates unblocked", "room_id", roomID, "range", rng.String(), "days", n)
	return n, nil
}

// validateRoom enforces business rules common to both Create and Update.
func validateRoom(room domain.Room) error {
	if strings.TrimSpace(room.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !room.Type.Valid() {
		return fmt.Errorf("%w: unknown room type %q", domain.ErrValidation, room.Type)
	}
	if room.PriceCents <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	if room.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", domain.ErrValidation)
	}
	if room.Rating != nil && (*room.Rating < 0 || *room.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 0 and 5", domain.ErrValidation)
	}
	return nil
}
