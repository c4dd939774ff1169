// Package main is the entry point for the hotel booking API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/hotel-booking/internal/auth"
	"github.com/pkordes/hotel-booking/internal/cache"
	"github.com/pkordes/hotel-booking/internal/config"
	"github.com/pkordes/hotel-booking/internal/handler"
	"github.com/pkordes/hotel-booking/internal/memstore"
	"github.com/pkordes/hotel-booking/internal/middleware"
	"github.com/pkordes/hotel-booking/internal/repo"
	"github.com/pkordes/hotel-booking/internal/service"
	"github.com/pkordes/hotel-booking/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// --- Calendar cache ---------------------------------------------------
	var calendar cache.Calendar = cache.Nop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			// The ledger is the source of truth; run uncached rather than refuse to start.
			slog.Warn("redis unreachable, calendar cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			calendar = cache.NewRedisCalendar(rdb, cfg.CalendarCacheTTL, logger)
			slog.Info("calendar cache enabled", "addr", cfg.RedisAddr)
		}
	}

	// --- Services ---------------------------------------------------------
	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to create token issuer", "error", err)
		os.Exit(1)
	}

	ledger := service.NewLedger(store, calendar)
	rooms := service.NewRoomService(store, ledger, logger)
	bookings := service.NewBookingService(store, ledger, logger)
	accounts := service.NewAuthService(store.Repos().Users, issuer, logger)
	exports := service.NewExportService(store)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → RateLimit → MaxBodySize.
	// RealIP must run before the rate limiter so clients are keyed by their
	// forwarded address rather than the proxy's.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srv := handler.NewServer(rooms, bookings, accounts, exports, logger)
	r.Mount("/", handler.NewRouter(srv, middleware.NewAuthenticator(issuer)))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore connects to Postgres, applying migrations when MIGRATE_ON_START is
// set. With no DATABASE_URL it falls back to the in-memory store.
func openStore(ctx context.Context, cfg config.Config) (repo.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, using in-memory store; data is lost on exit")
		return memstore.New(), func() {}, nil
	}

	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create database pool: %w", err)
	}

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		// goose needs database/sql; borrow a handle backed by the same pool.
		sqlDB := stdlib.OpenDBFromPool(pool)
		applied, err := migrations.Up(ctx, sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		slog.Info("migrations applied", "count", applied)
	}
	return repo.NewStore(pool), pool.Close, nil
}
