package domain

// Listing defaults for paged booking queries (admin listing and export).
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PaginationParams selects one page of a booking listing. Page starts at 1.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds PaginationParams from the optional page and limit
// query values of GET /api/admin/bookings. Missing or non-positive values use
// page 1 and DefaultPageLimit; larger limits are clamped to MaxPageLimit.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset is the number of bookings to skip before this page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
