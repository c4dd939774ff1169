// Package domain contains the core data types for the hotel booking API.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (repo, service, handler).
package domain

// RoomType classifies a room for search filtering and display.
type RoomType string

const (
	RoomTypeStandard  RoomType = "standard"
	RoomTypeDeluxe    RoomType = "deluxe"
	RoomTypeSuite     RoomType = "suite"
	RoomTypeExecutive RoomType = "executive"
)

// Valid reports whether t is one of the known room types.
func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite, RoomTypeExecutive:
		return true
	}
	return false
}

// Room is a bookable unit.
// IsAvailable is the global "in service" flag. It is independent of the per-day
// ledger: a room taken out of service cannot be booked on any date, whatever the
// ledger says, and the ledger itself never consults it.
type Room struct {
	ID          int64
	Name        string
	Description string
	Type        RoomType
	PriceCents  int64 // nightly price
	ImageURL    string
	Capacity    int // max guests
	Amenities   []string
	IsAvailable bool
	Rating      *float64
}

// RoomSearch filters rooms for a stay. Zero-valued optional fields are ignored.
type RoomSearch struct {
	Range         DateRange
	Guests        int
	Type          RoomType
	MinPriceCents *int64
	MaxPriceCents *int64
	Amenities     []string
}

// Availability answers "can this room be booked for this range" together with
// the per-day ledger projection used by calendar views.
type Availability struct {
	RoomID        int64
	Range         DateRange
	Available     bool // RoomInService && every day free
	RoomInService bool
	Days          []CalendarDate
}
