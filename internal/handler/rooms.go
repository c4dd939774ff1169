package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hotel-booking/internal/domain"
)

// Room is the wire representation of a room.
type Room struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	PriceCents  int64    `json:"price_cents"`
	ImageURL    string   `json:"image_url"`
	Capacity    int      `json:"capacity"`
	Amenities   []string `json:"amenities"`
	IsAvailable bool     `json:"is_available"`
	Rating      *float64 `json:"rating,omitempty"`
}

// RoomRequest is the body of POST /api/admin/rooms and PUT /api/admin/rooms/{id}.
// IsAvailable defaults to true on create and to the current value on update.
type RoomRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Type        string   `json:"type" validate:"required,oneof=standard deluxe suite executive"`
	PriceCents  int64    `json:"price_cents" validate:"gt=0"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Capacity    int      `json:"capacity" validate:"gte=1"`
	Amenities   []string `json:"amenities" validate:"dive,required"`
	IsAvailable *bool    `json:"is_available"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// RoomSearchRequest is the body of POST /api/rooms/search.
type RoomSearchRequest struct {
	CheckIn       *openapi_types.Date `json:"check_in" validate:"required"`
	CheckOut      *openapi_types.Date `json:"check_out" validate:"required"`
	Guests        int                 `json:"guests" validate:"gte=1"`
	Type          string              `json:"type" validate:"omitempty,oneof=standard deluxe suite executive"`
	MinPriceCents *int64              `json:"min_price_cents" validate:"omitempty,gte=0"`
	MaxPriceCents *int64              `json:"max_price_cents" validate:"omitempty,gte=0"`
	Amenities     []string            `json:"amenities"`
}

// CalendarDay is one day of an availability calendar.
type CalendarDay struct {
	Date        openapi_types.Date `json:"date"`
	IsAvailable bool               `json:"is_available"`
	Blocked     bool               `json:"blocked"`
}

// AvailabilityResponse is the body of GET /api/rooms/{id}/availability.
type AvailabilityResponse struct {
	RoomID        int64              `json:"room_id"`
	StartDate     openapi_types.Date `json:"start_date"`
	EndDate       openapi_types.Date `json:"end_date"`
	Nights        int                `json:"nights"`
	Available     bool               `json:"available"`
	RoomInService bool               `json:"room_in_service"`
	Quote         *QuoteResponse     `json:"quote,omitempty"`
	Days          []CalendarDay      `json:"days"`
}

// QuoteResponse is the price breakdown of a stay, in cents.
type QuoteResponse struct {
	RoomCents     int64 `json:"room_cents"`
	CleaningCents int64 `json:"cleaning_cents"`
	ServiceCents  int64 `json:"service_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// ListRooms handles GET /api/rooms.
func (s *Server) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.rooms.List(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, roomsToResponse(rooms))
}

// GetRoom handles GET /api/rooms/{id}.
func (s *Server) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	room, err := s.rooms.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, roomToResponse(room))
}

// SearchRooms handles POST /api/rooms/search.
func (s *Server) SearchRooms(w http.ResponseWriter, r *http.Request) {
	var body RoomSearchRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	rng, err := dateRange(body.CheckIn, body.CheckOut)
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}

	rooms, err := s.rooms.Search(r.Context(), domain.RoomSearch{
		Range:         rng,
		Guests:        body.Guests,
		Type:          domain.RoomType(body.Type),
		MinPriceCents: body.MinPriceCents,
		MaxPriceCents: body.MaxPriceCents,
		Amenities:     body.Amenities,
	})
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, roomsToResponse(rooms))
}

// GetRoomAvailability handles GET /api/rooms/{id}/availability?start_date=&end_date=.
func (s *Server) GetRoomAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	rng, err := queryDateRange(r)
	if err != nil {
		if isValidation(err) {
			s.serviceError(w, r, err, "")
			return
		}
		requestError(w, err.Error())
		return
	}

	avail, err := s.rooms.CheckAvailability(r.Context(), id, rng)
	if err != nil {
		s.serviceError(w, r, err, "room not found")
		return
	}
	resp := AvailabilityResponse{
		RoomID:        avail.RoomID,
		StartDate:     openapi_types.Date{Time: rng.Start},
		EndDate:       openapi_types.Date{Time: rng.End},
		Nights:        rng.Nights(),
		Available:     avail.Available,
		RoomInService: avail.RoomInService,
		Days:          make([]CalendarDay, len(avail.Days)),
	}
	for i, d := range avail.Days {
		resp.Days[i] = CalendarDay{
			Date:        openapi_types.Date{Time: d.Day},
			IsAvailable: d.IsAvailable,
			Blocked:     d.Blocked(),
		}
	}
	if avail.Available {
		if room, err := s.rooms.Get(r.Context(), id); err == nil {
			q := quoteToResponse(domain.QuoteStay(room.PriceCents, rng.Nights()))
			resp.Quote = &q
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- mapping helpers --------------------------------------------------------

func roomToResponse(room domain.Room) Room {
	amenities := room.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return Room{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.Description,
		Type:        string(room.Type),
		PriceCents:  room.PriceCents,
		ImageURL:    room.ImageURL,
		Capacity:    room.Capacity,
		Amenities:   amenities,
		IsAvailable: room.IsAvailable,
		Rating:      room.Rating,
	}
}

func roomsToResponse(rooms []domain.Room) []Room {
	data := make([]Room, len(rooms))
	for i, room := range rooms {
		data[i] = roomToResponse(room)
	}
	return data
}

func quoteToResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		RoomCents:     q.RoomCents,
		CleaningCents: q.CleaningCents,
		ServiceCents:  q.ServiceCents,
		TaxCents:      q.TaxCents,
		TotalCents:    q.TotalCents,
	}
}

// requestToRoom builds a domain.Room from a request body. current supplies the
// in-service flag when the body omits it.
func requestToRoom(id int64, body RoomRequest, current bool) domain.Room {
	available := current
	if body.IsAvailable != nil {
		available = *body.IsAvailable
	}
	return domain.Room{
		ID:          id,
		Name:        body.Name,
		Description: body.Description,
		Type:        domain.RoomType(body.Type),
		PriceCents:  body.PriceCents,
		ImageURL:    body.ImageURL,
		Capacity:    body.Capacity,
		Amenities:   body.Amenities,
		IsAvailable: available,
		Rating:      body.Rating,
	}
}
