package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/hotel-booking/internal/domain"
)

// UserRepo defines the persistence operations for Users.
type UserRepo interface {
	// Create inserts a user. Returns domain.ErrDuplicate if the username or
	// email is already registered.
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// GetByUsername retrieves a user. Returns domain.ErrNotFound if absent.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// GetByID retrieves a user. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (domain.User, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, username, password_hash, email, name, phone, is_admin, created_at`

func (r *pgUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (username, password_hash, email, name, phone, is_admin)
		VALUES (@username, @password_hash, @email, @name, @phone, @is_admin)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"username":      u.Username,
		"password_hash": u.PasswordHash,
		"email":         u.Email,
		"name":          u.Name,
		"phone":         u.Phone,
		"is_admin":      u.IsAdmin,
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = @username`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"username": username}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByUsername: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", mapPgError(err))
	}
	return result, nil
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Name, &u.Phone,
		&u.IsAdmin, &u.CreatedAt)
	return u, err
}
