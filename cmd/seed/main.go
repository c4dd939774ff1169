// Package main seeds a development database with an admin account and a few
// sample rooms. It is safe to run repeatedly: existing rows are left alone.
//
// Usage:
//
//	DATABASE_URL=postgres://... SEED_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/repo"
	"github.com/pkordes/hotel-booking/internal/service"
	"github.com/pkordes/hotel-booking/migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(context.Background(), logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open pool: %w", err)
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(ctx, sqlDB)
	_ = sqlDB.Close()
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "count", applied)

	store := repo.NewStore(pool)
	if err := seedAdmin(ctx, store.Repos().Users, logger); err != nil {
		return err
	}
	return seedRooms(ctx, store, logger)
}

func seedAdmin(ctx context.Context, users repo.UserRepo, logger *slog.Logger) error {
	username := getEnv("SEED_ADMIN_USERNAME", "admin")
	if _, err := users.GetByUsername(ctx, username); err == nil {
		logger.Info("admin user exists", "username", username)
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if len(password) < 8 {
		return errors.New("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	u, err := users.Create(ctx, domain.User{
		Username:     username,
		PasswordHash: hash,
		Email:        getEnv("SEED_ADMIN_EMAIL", "admin@example.com"),
		Name:         "Administrator",
		IsAdmin:      true,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Info("admin user created", "user_id", u.ID, "username", u.Username)
	return nil
}

func seedRooms(ctx context.Context, store repo.Store, logger *slog.Logger) error {
	return store.WithTx(ctx, func(r repo.Repos) error {
		existing, err := r.Rooms.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			logger.Info("rooms exist, skipping", "count", len(existing))
			return nil
		}
		for _, room := range sampleRooms() {
			created, err := r.Rooms.Create(ctx, room)
			if err != nil {
				return fmt.Errorf("create room %q: %w", room.Name, err)
			}
			logger.Info("room created", "room_id", created.ID, "name", created.Name)
		}
		return nil
	})
}

func sampleRooms() []domain.Room {
	rating := func(v float64) *float64 { return &v }
	return []domain.Room{
		{
			Name:        "Garden Standard",
			Description: "Queen bed overlooking the courtyard garden.",
			Type:        domain.RoomTypeStandard,
			PriceCents:  12900,
			Capacity:    2,
			Amenities:   []string{"wifi", "tv", "air_conditioning"},
			IsAvailable: true,
			Rating:      rating(4.2),
		},
		{
			Name:        "Ocean Deluxe",
			Description: "King bed with a private balcony facing the sea.",
			Type:        domain.RoomTypeDeluxe,
			PriceCents:  21900,
			Capacity:    3,
			Amenities:   []string{"wifi", "tv", "balcony", "minibar"},
			IsAvailable: true,
			Rating:      rating(4.6),
		},
		{
			Name:        "Family Suite",
			Description: "Two bedrooms and a living area for up to five guests.",
			Type:        domain.RoomTypeSuite,
			PriceCents:  34900,
			Capacity:    5,
			Amenities:   []string{"wifi", "tv", "kitchenette", "sofa_bed"},
			IsAvailable: true,
			Rating:      rating(4.7),
		},
		{
			Name:        "Executive Corner",
			Description: "Corner room with a work desk and lounge access.",
			Type:        domain.RoomTypeExecutive,
			PriceCents:  29900,
			Capacity:    2,
			Amenities:   []string{"wifi", "desk", "lounge_access", "coffee_machine"},
			IsAvailable: true,
			Rating:      rating(4.8),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
