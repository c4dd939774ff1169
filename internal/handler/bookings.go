package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hotel-booking/internal/auth"
	"github.com/pkordes/hotel-booking/internal/domain"
)

// Booking is the wire representation of a booking.
type Booking struct {
	ID              int64              `json:"id"`
	RoomID          int64              `json:"room_id"`
	UserID          *int64             `json:"user_id,omitempty"`
	CheckIn         openapi_types.Date `json:"check_in"`
	CheckOut        openapi_types.Date `json:"check_out"`
	Nights          int                `json:"nights"`
	GuestCount      int                `json:"guest_count"`
	GuestName       string             `json:"guest_name"`
	GuestEmail      string             `json:"guest_email"`
	GuestPhone      string             `json:"guest_phone"`
	SpecialRequests string             `json:"special_requests,omitempty"`
	Status          string             `json:"status"`
	TotalCents      int64              `json:"total_cents"`
	ReferenceNumber string             `json:"reference_number"`
	CreatedAt       time.Time          `json:"created_at"`
}

// CreateBookingRequest is the body of POST /api/bookings.
type CreateBookingRequest struct {
	RoomID          int64               `json:"room_id" validate:"gt=0"`
	CheckIn         *openapi_types.Date `json:"check_in" validate:"required"`
	CheckOut        *openapi_types.Date `json:"check_out" validate:"required"`
	GuestCount      int                 `json:"guest_count" validate:"gte=1"`
	GuestName       string              `json:"guest_name" validate:"required"`
	GuestEmail      string              `json:"guest_email" validate:"required,email"`
	GuestPhone      string              `json:"guest_phone" validate:"required"`
	SpecialRequests string              `json:"special_requests"`
}

// BookingStatusRequest is the body of PUT /api/admin/bookings/{id}/status.
type BookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// BookingPage is one page of the admin booking listing.
type BookingPage struct {
	Data       []Booking  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// CreateBooking handles POST /api/bookings.
// Authenticated callers own the booking; anonymous callers make a guest booking.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var body CreateBookingRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	req := domain.BookingRequest{
		RoomID:          body.RoomID,
		CheckIn:         body.CheckIn.Time,
		CheckOut:        body.CheckOut.Time,
		GuestCount:      body.GuestCount,
		GuestName:       body.GuestName,
		GuestEmail:      body.GuestEmail,
		GuestPhone:      body.GuestPhone,
		SpecialRequests: body.SpecialRequests,
	}
	if p := auth.PrincipalFrom(r.Context()); p != nil {
		uid := p.UserID
		req.UserID = &uid
	}

	created, err := s.bookings.Create(r.Context(), req)
	if err != nil {
		s.serviceError(w, r, err, "room not found")
		return
	}
	writeJSON(w, http.StatusCreated, bookingToResponse(created))
}

// GetBooking handles GET /api/bookings/{id}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	b, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "booking not found")
		return
	}
	if !auth.CanView(auth.PrincipalFrom(r.Context()), b.UserID) {
		forbidden(w)
		return
	}
	writeJSON(w, http.StatusOK, bookingToResponse(b))
}

// GetBookingByReference handles GET /api/bookings/reference/{reference}.
func (s *Server) GetBookingByReference(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(chi.URLParam(r, "reference"))
	if ref == "" {
		requestError(w, "reference is required")
		return
	}
	b, err := s.bookings.GetByReference(r.Context(), ref)
	if err != nil {
		s.serviceError(w, r, err, "booking not found")
		return
	}
	if !auth.CanView(auth.PrincipalFrom(r.Context()), b.UserID) {
		forbidden(w)
		return
	}
	writeJSON(w, http.StatusOK, bookingToResponse(b))
}

// ListMyBookings handles GET /api/my-bookings. Requires authentication.
func (s *Server) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())
	bookings, err := s.bookings.ListByUser(r.Context(), p.UserID)
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, bookingsToResponse(bookings))
}

// CancelBooking handles POST /api/bookings/{id}/cancel.
// Only the booking's owner or an admin may cancel it.
func (s *Server) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	b, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "booking not found")
		return
	}
	if !auth.IsOwnerOrAdmin(auth.PrincipalFrom(r.Context()), b.UserID) {
		forbidden(w)
		return
	}

	cancelled, err := s.bookings.Cancel(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, bookingToResponse(cancelled))
}

// ListAllBookings handles GET /api/admin/bookings?page=&limit=.
func (s *Server) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	params, err := queryPagination(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}
	bookings, total, err := s.bookings.ListAll(r.Context(), params)
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, BookingPage{
		Data: bookingsToResponse(bookings),
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// SetBookingStatus handles PUT /api/admin/bookings/{id}/status.
func (s *Server) SetBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	var body BookingStatusRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	updated, err := s.bookings.SetStatus(r.Context(), id, domain.BookingStatus(body.Status))
	if err != nil {
		s.serviceError(w, r, err, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, bookingToResponse(updated))
}

// --- mapping helpers --------------------------------------------------------

func bookingToResponse(b domain.Booking) Booking {
	return Booking{
		ID:              b.ID,
		RoomID:          b.RoomID,
		UserID:          b.UserID,
		CheckIn:         openapi_types.Date{Time: b.CheckIn},
		CheckOut:        openapi_types.Date{Time: b.CheckOut},
		Nights:          b.Stay().Nights(),
		GuestCount:      b.GuestCount,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		SpecialRequests: b.SpecialRequests,
		Status:          string(b.Status),
		TotalCents:      b.TotalCents,
		ReferenceNumber: b.ReferenceNumber,
		CreatedAt:       b.CreatedAt,
	}
}

func bookingsToResponse(bookings []domain.Booking) []Booking {
	data := make([]Booking, len(bookings))
	for i, b := range bookings {
		data[i] = bookingToResponse(b)
	}
	return data
}
