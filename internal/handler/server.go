// Package handler implements the HTTP handlers for the hotel booking API.
// All handlers are methods on Server. Methods are split into resource files
// (rooms.go, bookings.go, ...) but share the same Server struct so they can
// access its dependencies. NewRouter maps them onto chi routes.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/middleware"
	"github.com/pkordes/hotel-booking/internal/service"
)

// RoomServicer defines the room and availability operations the handlers use.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the store or service layer.
type RoomServicer interface {
	Create(ctx context.Context, room domain.Room) (domain.Room, error)
	Update(ctx context.Context, room domain.Room) (domain.Room, error)
	Get(ctx context.Context, id int64) (domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
	Delete(ctx context.Context, id int64) error
	SetAvailability(ctx context.Context, id int64, available bool) (domain.Room, error)
	Search(ctx context.Context, q domain.RoomSearch) ([]domain.Room, error)
	CheckAvailability(ctx context.Context, roomID int64, rng domain.DateRange) (domain.Availability, error)
	BlockDates(ctx context.Context, roomID int64, rng domain.DateRange) error
	UnblockDates(ctx context.Context, roomID int64, rng domain.DateRange) (int, error)
}

// BookingServicer defines the booking lifecycle operations the handlers use.
type BookingServicer interface {
	Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID, amountCents int64, method string) (domain.Booking, domain.Payment, error)
	Cancel(ctx context.Context, bookingID int64) (domain.Booking, error)
	SetStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (domain.Booking, error)
	GetByID(ctx context.Context, id int64) (domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)
	ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error)
}

// AuthServicer defines the account operations the handlers use.
type AuthServicer interface {
	Register(ctx context.Context, u domain.User, password string) (service.Session, error)
	Login(ctx context.Context, username, password string) (service.Session, error)
	Me(ctx context.Context, p *domain.Principal) (domain.User, error)
}

// ExportServicer defines the admin export operation.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	rooms    RoomServicer
	bookings BookingServicer
	accounts AuthServicer
	exports  ExportServicer
	logger   *slog.Logger
	validate *validator.Validate
}

// NewServer constructs the Server with all its dependencies.
func NewServer(rooms RoomServicer, bookings BookingServicer, accounts AuthServicer, exports ExportServicer, logger *slog.Logger) *Server {
	return &Server{
		rooms:    rooms,
		bookings: bookings,
		accounts: accounts,
		exports:  exports,
		logger:   logger,
		validate: newValidator(),
	}
}

// NewRouter registers every route on a fresh chi router. authenticate is the
// bearer-token middleware (middleware.NewAuthenticator); it runs on all /api
// routes so handlers can see an optional principal, while RequireAuth and
// RequireAdmin gate the routes that need one.
func NewRouter(s *Server, authenticate func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.With(middleware.RequireAuth).Get("/auth/session", s.GetSession)

		r.Get("/rooms", s.ListRooms)
		r.Post("/rooms/search", s.SearchRooms)
		r.Get("/rooms/{id}", s.GetRoom)
		r.Get("/rooms/{id}/availability", s.GetRoomAvailability)

		r.Post("/bookings", s.CreateBooking)
		r.Get("/bookings/reference/{reference}", s.GetBookingByReference)
		r.Get("/bookings/{id}", s.GetBooking)
		r.Post("/bookings/{id}/cancel", s.CancelBooking)
		r.With(middleware.RequireAuth).Get("/my-bookings", s.ListMyBookings)

		r.Post("/payments", s.CreatePayment)
		r.Get("/payments/booking/{id}", s.ListBookingPayments)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/rooms", s.CreateRoom)
			r.Put("/rooms/{id}", s.UpdateRoom)
			r.Delete("/rooms/{id}", s.DeleteRoom)
			r.Put("/rooms/{id}/availability", s.SetRoomAvailability)
			r.Post("/rooms/{id}/blocks", s.BlockRoomDates)
			r.Delete("/rooms/{id}/blocks", s.UnblockRoomDates)

			r.Get("/bookings", s.ListAllBookings)
			r.Get("/bookings/export", s.ExportBookings)
			r.Put("/bookings/{id}/status", s.SetBookingStatus)
		})
	})

	return r
}
