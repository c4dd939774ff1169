package auth

import (
	"context"

	"github.com/pkordes/hotel-booking/internal/domain"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller stored in ctx, or nil for an anonymous caller.
func PrincipalFrom(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(principalKey{}).(*domain.Principal)
	return p
}

// IsOwnerOrAdmin reports whether p may act on a resource owned by ownerID.
// Guest-owned resources (nil ownerID) are only actionable by admins.
func IsOwnerOrAdmin(p *domain.Principal, ownerID *int64) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin {
		return true
	}
	return ownerID != nil && *ownerID == p.UserID
}

// CanView reports whether p may read a booking owned by ownerID.
// Guest bookings are readable by anyone holding their id or reference.
func CanView(p *domain.Principal, ownerID *int64) bool {
	return ownerID == nil || IsOwnerOrAdmin(p, ownerID)
}
