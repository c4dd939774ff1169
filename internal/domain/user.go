package domain

import "time"

// User is a registered account. Bookings may also be made without one.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	Name         string
	Phone        string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Principal is the authenticated caller of a request.
// A nil *Principal means an anonymous caller.
type Principal struct {
	UserID   int64
	Username string
	IsAdmin  bool
}
