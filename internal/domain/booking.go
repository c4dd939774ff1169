package domain

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	// BookingPending is the initial state; the booking's dates are already reserved.
	BookingPending BookingStatus = "pending"
	// BookingConfirmed is entered when payment succeeds.
	BookingConfirmed BookingStatus = "confirmed"
	// BookingCancelled is terminal; the booking's dates have been released.
	BookingCancelled BookingStatus = "cancelled"
	// BookingCompleted is terminal; the stay is over. Set by an admin.
	BookingCompleted BookingStatus = "completed"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether the booking can no longer be cancelled.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// HoldsDates reports whether a booking in this status still owns its ledger range.
// Only cancellation releases dates; a completed stay keeps its history.
func (s BookingStatus) HoldsDates() bool {
	return s != BookingCancelled
}

func (s BookingStatus) String() string {
	return string(s)
}

// Booking is a guest's reservation of one room for a range of nights.
// UserID is nil for guest checkouts. RoomID may reference a room that has since
// been deleted; bookings are never deleted.
type Booking struct {
	ID              int64
	RoomID          int64
	UserID          *int64
	CheckIn         time.Time // calendar day, UTC midnight
	CheckOut        time.Time // calendar day, UTC midnight, excluded from the stay
	GuestCount      int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string
	Status          BookingStatus
	TotalCents      int64
	ReferenceNumber string
	CreatedAt       time.Time
}

// Stay returns the booking's reserved range [CheckIn, CheckOut).
func (b Booking) Stay() DateRange {
	return DateRange{Start: b.CheckIn, End: b.CheckOut}
}

// BookingRequest carries the caller-supplied fields for a new booking.
type BookingRequest struct {
	RoomID          int64
	UserID          *int64
	CheckIn         time.Time
	CheckOut        time.Time
	GuestCount      int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string
}
