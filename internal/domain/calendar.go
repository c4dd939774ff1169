package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar days.
const DateLayout = "2006-01-02"

// MaxStayNights bounds a single range so one request cannot claim years of dates.
const MaxStayNights = 365

// Day truncates t to its calendar day, expressed as midnight UTC.
// The calendar date is taken in t's own location, so 2025-06-01T23:30-05:00
// is day 2025-06-01, not 2025-06-02.
// Every ledger key passes through Day; mixing un-normalised timestamps would make
// entries for the same day compare unequal.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a "2006-01-02" string into a normalised day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrValidation, s)
	}
	return Day(t), nil
}

// DateRange is a half-open interval of calendar days [Start, End).
// For a stay, Start is the check-in day and End the check-out day; the check-out
// day itself is never part of the range, so a new guest may check in on it.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalises start and end to calendar days and validates that
// End is strictly after Start and the range is at most MaxStayNights long.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if !r.End.After(r.Start) {
		return DateRange{}, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}
	if r.Nights() > MaxStayNights {
		return DateRange{}, fmt.Errorf("%w: range may not exceed %d nights", ErrValidation, MaxStayNights)
	}
	return r, nil
}

// Nights returns the number of days in the range.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Days returns every day in the range in ascending order.
func (r DateRange) Days() []time.Time {
	days := make([]time.Time, 0, r.Nights())
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether day (after normalisation) falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(r.Start) && d.Before(r.End)
}

// Overlaps reports whether two ranges share at least one day.
// Ranges that only touch at a boundary (one ends the day the other starts) do not overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// CalendarDate is one ledger entry: the reservation state of a room on a day.
// Absence of a stored entry means the day is available.
// An unavailable entry with a nil BookingID is an admin block.
type CalendarDate struct {
	RoomID      int64
	Day         time.Time
	IsAvailable bool
	BookingID   *int64
}

// Blocked reports whether the entry is a manual admin block rather than a booking.
func (c CalendarDate) Blocked() bool {
	return !c.IsAvailable && c.BookingID == nil
}
