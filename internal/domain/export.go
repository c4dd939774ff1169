package domain

import "time"

// ExportRow is a single row in the admin booking export.
// It is a flat, denormalized view: one row per booking with the room name and
// the payments recorded against it rolled up. Bookings whose room has been
// deleted keep their RoomID and get an empty RoomName.
type ExportRow struct {
	ReferenceNumber string
	Status          BookingStatus
	RoomID          int64
	RoomName        string
	CheckIn         string // "2006-01-02"
	CheckOut        string // "2006-01-02"
	Nights          int
	GuestCount      int
	GuestName       string
	GuestEmail      string
	TotalCents      int64
	PaidCents       int64 // sum of completed payments
	CreatedAt       time.Time
}
