package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// RoomAvailabilityRequest is the body of PUT /api/admin/rooms/{id}/availability.
type RoomAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// BlockRequest is the body of the admin block endpoints.
type BlockRequest struct {
	StartDate *openapi_types.Date `json:"start_date" validate:"required"`
	EndDate   *openapi_types.Date `json:"end_date" validate:"required"`
}

// UnblockResponse reports how many days an unblock freed.
type UnblockResponse struct {
	Released int `json:"released"`
}

// CreateRoom handles POST /api/admin/rooms.
func (s *Server) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var body RoomRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	created, err := s.rooms.Create(r.Context(), requestToRoom(0, body, true))
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, roomToResponse(created))
}

// UpdateRoom handles PUT /api/admin/rooms/{id}.
func (s *Server) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	var body RoomRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	current, err := s.rooms.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "room not found")
		return
	}
	updated, err := s.rooms.Update(r.Context(), requestToRoom(id, body, current.IsAvailable))
	if err != nil {
		s.serviceError(w, r, err, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, roomToResponse(updated))
}

// DeleteRoom handles DELETE /api/admin/rooms/{id}.
func (s *Server) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	if err := s.rooms.Delete(r.Context(), id); err != nil {
		s.serviceError(w, r, err, "room not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetRoomAvailability handles PUT /api/admin/rooms/{id}/availability.
func (s *Server) SetRoomAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	var body RoomAvailabilityRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	room, err := s.rooms.SetAvailability(r.Context(), id, *body.IsAvailable)
	if err != nil {
		s.serviceError(w, r, err, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, roomToResponse(room))
}

// BlockRoomDates handles POST /api/admin/rooms/{id}/blocks.
func (s *Server) BlockRoomDates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	var body BlockRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	rng, err := dateRange(body.StartDate, body.EndDate)
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	if err := s.rooms.BlockDates(r.Context(), id, rng); err != nil {
		s.serviceError(w, r, err, "room not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnblockRoomDates handles DELETE /api/admin/rooms/{id}/blocks?start_date=&end_date=.
func (s *Server) UnblockRoomDates(w http.ResponseWriter, r *http.Request) {
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
	n, err := s.rooms.UnblockDates(r.Context(), id, rng)
	if err != nil {
		s.serviceError(w, r, err, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, UnblockResponse{Released: n})
}
