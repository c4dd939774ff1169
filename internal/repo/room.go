package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/hotel-booking/internal/domain"
)

// RoomRepo defines the persistence operations for Rooms.
type RoomRepo interface {
	// Create inserts a new room and returns it with its DB-generated id.
	Create(ctx context.Context, room domain.Room) (domain.Room, error)

	// GetByID retrieves a single room. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (domain.Room, error)

	// List returns all rooms ordered by id.
	List(ctx context.Context) ([]domain.Room, error)

	// Search returns in-service rooms that fit the guest count and filters and
	// have no unavailable ledger day inside the search range.
	Search(ctx context.Context, q domain.RoomSearch) ([]domain.Room, error)

	// Update overwrites the mutable fields of a room, including IsAvailable.
	// Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, room domain.Room) (domain.Room, error)

	// SetAvailability flips the global in-service flag only.
	// Returns domain.ErrNotFound if absent.
	SetAvailability(ctx context.Context, id int64, available bool) (domain.Room, error)

	// Delete removes a room. Its bookings remain. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error
}

// pgRoomRepo is the Postgres implementation of RoomRepo.
type pgRoomRepo struct {
	db db
}

// NewRoomRepo constructs a RoomRepo backed by the provided db connection.
func NewRoomRepo(db db) RoomRepo {
	return &pgRoomRepo{db: db}
}

const roomColumns = `id, name, description, type, price_cents, image_url, capacity, amenities, is_available, rating`

func (r *pgRoomRepo) Create(ctx context.Context, room domain.Room) (domain.Room, error) {
	const q = `
		INSERT INTO rooms (name, description, type, price_cents, image_url, capacity, amenities, is_available, rating)
		VALUES (@name, @description, @type, @price_cents, @image_url, @capacity, @amenities, @is_available, @rating)
		RETURNING ` + roomColumns

	row := r.db.QueryRow(ctx, q, roomArgs(room))
	result, err := scanRoom(row)
	if err != nil {
		return domain.Room{}, fmt.Errorf("repo.RoomRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgRoomRepo) GetByID(ctx context.Context, id int64) (domain.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = @id`

	result, err := scanRoom(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Room{}, fmt.Errorf("repo.RoomRepo.GetByID: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgRoomRepo) List(ctx context.Context) ([]domain.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.RoomRepo.List: %w", err)
	}
	rooms, err := collectRooms(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RoomRepo.List: %w", err)
	}
	return rooms, nil
}

// Search applies the room filters in SQL and excludes rooms with any taken day
// in [start, end). The check-out day is not part of the range.
func (r *pgRoomRepo) Search(ctx context.Context, s domain.RoomSearch) ([]domain.Room, error) {
	const q = `
		SELECT ` + roomColumns + `
		FROM rooms r
		WHERE r.is_available
		  AND r.capacity >= @guests
		  AND (@type = '' OR r.type = @type)
		  AND (@min_price::bigint IS NULL OR r.price_cents >= @min_price::bigint)
		  AND (@max_price::bigint IS NULL OR r.price_cents <= @max_price::bigint)
		  AND r.amenities @> @amenities::text[]
		  AND NOT EXISTS (
		      SELECT 1 FROM room_dates d
		      WHERE d.room_id = r.id
		        AND NOT d.is_available
		        AND d.day >= @start AND d.day < @end)
		ORDER BY r.price_cents, r.id`

	amenities := s.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	args := pgx.NamedArgs{
		"guests":    s.Guests,
		"type":      string(s.Type),
		"min_price": s.MinPriceCents,
		"max_price": s.MaxPriceCents,
		"amenities": amenities,
		"start":     s.Range.Start,
		"end":       s.Range.End,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.RoomRepo.Search: %w", err)
	}
	rooms, err := collectRooms(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RoomRepo.Search: %w", err)
	}
	return rooms, nil
}

func (r *pgRoomRepo) Update(ctx context.Context, room domain.Room) (domain.Room, error) {
	const q = `
		UPDATE rooms
		SET name         = @name,
		    description  = @description,
		    type         = @type,
		    price_cents  = @price_cents,
		    image_url    = @image_url,
		    capacity     = @capacity,
		    amenities    = @amenities,
		    is_available = @is_available,
		    rating       = @rating
		WHERE id = @id
		RETURNING ` + roomColumns

	args := roomArgs(room)
	args["id"] = room.ID

	result, err := scanRoom(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Room{}, fmt.Errorf("repo.RoomRepo.Update: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgRoomRepo) SetAvailability(ctx context.Context, id int64, available bool) (domain.Room, error) {
	const q = `
		UPDATE rooms SET is_available = @is_available
		WHERE id = @id
		RETURNING ` + roomColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "is_available": available})
	result, err := scanRoom(row)
	if err != nil {
		return domain.Room{}, fmt.Errorf("repo.RoomRepo.SetAvailability: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgRoomRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM rooms WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.RoomRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RoomRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func roomArgs(room domain.Room) pgx.NamedArgs {
	amenities := room.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return pgx.NamedArgs{
		"name":         room.Name,
		"description":  room.Description,
		"type":         string(room.Type),
		"price_cents":  room.PriceCents,
		"image_url":    room.ImageURL,
		"capacity":     room.Capacity,
		"amenities":    amenities,
		"is_available": room.IsAvailable,
		"rating":       room.Rating, // nil becomes NULL
	}
}

func collectRooms(rows pgx.Rows) ([]domain.Room, error) {
	defer rows.Close()

	rooms := []domain.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return rooms, nil
}

// scanRoom maps a single database row into a domain.Room.
func scanRoom(s scanner) (domain.Room, error) {
	var (
		room     domain.Room
		roomType string
	)
	err := s.Scan(&room.ID, &room.Name, &room.Description, &roomType, &room.PriceCents,
		&room.ImageURL, &room.Capacity, &room.Amenities, &room.IsAvailable, &room.Rating)
	if err != nil {
		return domain.Room{}, err
	}
	room.Type = domain.RoomType(roomType)
	return room, nil
}
