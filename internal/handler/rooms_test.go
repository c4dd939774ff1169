package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/handler"
)

// ---- GET /api/rooms --------------------------------------------------------

func TestListRooms_200(t *testing.T) {
	api := newTestAPI(t)
	api.rooms.list = func(_ context.Context) ([]domain.Room, error) {
		return []domain.Room{roomFixture()}, nil
	}

	rec := api.do(t, http.MethodGet, "/api/rooms", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	rooms := decode[[]handler.Room](t, rec)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Ocean View", rooms[0].Name)
	assert.Equal(t, "deluxe", rooms[0].Type)
}

func TestListRooms_500_LogsAndHidesError(t *testing.T) {
	api := newTestAPI(t)
	api.rooms.list = func(_ context.Context) ([]domain.Room, error) {
		return nil, errors.New("connection refused")
	}

	rec := api.do(t, http.MethodGet, "/api/rooms", nil, "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

// ---- GET /api/rooms/{id} ---------------------------------------------------

func TestGetRoom_200(t *testing.T) {
	api := newTestAPI(t)
	api.rooms.get = func(_ context.Context, id int64) (domain.Room, error) {
		require.Equal(t, int64(1), id)
		return roomFixture(), nil
	}

	rec := api.do(t, http.MethodGet, "/api/rooms/1", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[handler.Room](t, rec).ID)
}

func TestGetRoom_404(t *testing.T) {
	api := newTestAPI(t)
	api.rooms.get = func(_ context.Context, _ int64) (domain.Room, error) {
		return domain.Room{}, fmt.Errorf("service.RoomService.Get: %w", domain.ErrNotFound)
	}

	rec := api.do(t, http.MethodGet, "/api/rooms/99", nil, "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestGetRoom_422_BadID(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/rooms/abc", "/api/rooms/0"} {
		rec := api.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, path)
	}
}

// ---- POST /api/rooms/search ------------------------------------------------

func TestSearchRooms_200_MapsFilters(t *testing.T) {
	api := newTestAPI(t)
	var got domain.RoomSearch
	api.rooms.search = func(_ context.Context, q domain.RoomSearch) ([]domain.Room, error) {
		got = q
		return []domain.Room{roomFixture()}, nil
	}

	rec := api.do(t, http.MethodPost, "/api/rooms/search", map[string]any{
		"check_in":        "2030-06-01",
		"check_out":       "2030-06-04",
		"guests":          2,
		"type":            "deluxe",
		"max_price_cents": 20000,
		"amenities":       []string{"wifi"},
	}, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, got.Range.Nights())
	assert.Equal(t, 2, got.Guests)
	assert.Equal(t, domain.RoomTypeDeluxe, got.Type)
	require.NotNil(t, got.MaxPriceCents)
	assert.Equal(t, int64(20000), *got.MaxPriceCents)
	assert.Nil(t, got.MinPriceCents)
	assert.Equal(t, []string{"wifi"}, got.Amenities)
}

func TestSearchRooms_422(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing dates", body: map[string]any{"guests": 1}},
		{name: "check-out before check-in", body: map[string]any{"check_in": "2030-06-04", "check_out": "2030-06-01", "guests": 1}},
		{name: "zero guests", body: map[string]any{"check_in": "2030-06-01", "check_out": "2030-06-04", "guests": 0}},
		{name: "unknown type", body: map[string]any{"check_in": "2030-06-01", "check_out": "2030-06-04", "guests": 1, "type": "penthouse"}},
		{name: "malformed date", body: map[string]any{"check_in": "06/01/2030", "check_out": "2030-06-04", "guests": 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPI(t)
			rec := api.do(t, http.MethodPost, "/api/rooms/search", tc.body, "")
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, "validation_error", errorCode(t, rec))
		})
	}
}

// ---- GET /api/rooms/{id}/availability --------------------------------------

func TestGetRoomAvailability_200(t *testing.T) {
	api := newTestAPI(t)
	booked := int64(5)
	api.rooms.checkAvailability = func(_ context.Context, roomID int64, rng domain.DateRange) (domain.Availability, error) {
		return domain.Availability{
			RoomID:        roomID,
			Range:         rng,
			Available:     false,
			RoomInService: true,
			Days: []domain.CalendarDate{
				{RoomID: roomID, Day: rng.Start, IsAvailable: true},
				{RoomID: roomID, Day: rng.Start.AddDate(0, 0, 1), IsAvailable: false, BookingID: &booked},
			},
		}, nil
	}

	rec := api.do(t, http.MethodGet, "/api/rooms/1/availability?start_date=2030-06-01&end_date=2030-06-03", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handler.AvailabilityResponse](t, rec)
	assert.False(t, resp.Available)
	assert.True(t, resp.RoomInService)
	assert.Equal(t, 2, resp.Nights)
	assert.Nil(t, resp.Quote)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, day("2030-06-02"), resp.Days[1].Date.Time)
	assert.False(t, resp.Days[1].IsAvailable)
	assert.False(t, resp.Days[1].Blocked)
}

func TestGetRoomAvailability_200_IncludesQuoteWhenFree(t *testing.T) {
	api := newTestAPI(t)
	api.rooms.checkAvailability = func(_ context.Context, roomID int64, rng domain.DateRange) (domain.Availability, error) {
		return domain.Availability{RoomID: roomID, Range: rng, Available: true, RoomInService: true}, nil
	}
	api.rooms.get = func(_ context.Context, _ int64) (domain.Room, error) {
		return roomFixture(), nil
	}

	rec := api.do(t, http.MethodGet, "/api/rooms/1/availability?start_date=2030-06-01&end_date=2030-06-03", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handler.AvailabilityResponse](t, rec)
	require.NotNil(t, resp.Quote)
	assert.Equal(t, domain.QuoteStay(10000, 2).TotalCents, resp.Quote.TotalCents)
}

func TestGetRoomAvailability_422(t *testing.T) {
	api := newTestAPI(t)

	for _, q := range []string{
		"",
		"?start_date=2030-06-01",
		"?start_date=bad&end_date=2030-06-03",
		"?start_date=2030-06-03&end_date=2030-06-03",
	} {
		rec := api.do(t, http.MethodGet, "/api/rooms/1/availability"+q, nil, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, q)
	}
}

func TestGetRoomAvailability_404(t *testing.T) {
	api := newTestAPI(t)
	api.rooms.checkAvailability = func(_ context.Context, _ int64, _ domain.DateRange) (domain.Availability, error) {
		return domain.Availability{}, domain.ErrNotFound
	}

	rec := api.do(t, http.MethodGet, "/api/rooms/9/availability?start_date=2030-06-01&end_date=2030-06-03", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
