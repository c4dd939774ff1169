// Package repo contains all database access logic for the hotel booking API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/hotel-booking/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// beginner is a db that can open a transaction. *pgxpool.Pool opens a real
// transaction; pgx.Tx opens a savepoint, which is what the integration tests use.
type beginner interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repos groups every repository bound to the same connection or transaction.
type Repos struct {
	Rooms    RoomRepo
	Bookings BookingRepo
	Payments PaymentRepo
	Ledger   LedgerRepo
	Users    UserRepo
}

// Store hands out repositories and runs units of work atomically.
// The service layer depends on this interface; Postgres and the in-memory
// store (internal/memstore) both implement it with identical semantics.
type Store interface {
	// Repos returns repositories for standalone reads and single-statement writes.
	Repos() Repos

	// WithTx runs fn with repositories bound to one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise; fn's error is returned.
	WithTx(ctx context.Context, fn func(r Repos) error) error
}

// pgStore is the Postgres implementation of Store.
type pgStore struct {
	db beginner
}

// NewStore constructs a Store backed by the provided pool.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStore(db beginner) Store {
	return &pgStore{db: db}
}

// NewRepos binds every repository to db.
func NewRepos(db db) Repos {
	return Repos{
		Rooms:    NewRoomRepo(db),
		Bookings: NewBookingRepo(db),
		Payments: NewPaymentRepo(db),
		Ledger:   NewLedgerRepo(db),
		Users:    NewUserRepo(db),
	}
}

func (s *pgStore) Repos() Repos {
	return NewRepos(s.db)
}

func (s *pgStore) WithTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.Store.WithTx: begin: %w", err)
	}
	// Rollback after Commit is a no-op, so deferring it covers every error path.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Store.WithTx: commit: %w", mapPgError(err))
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Postgres SQLSTATE codes the repos translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapPgError converts constraint violations into domain sentinels so the
// service layer never has to know about SQLSTATE codes.
func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}
