package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-booking/internal/domain"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss, err := NewIssuer("s3cret", time.Hour)
	require.NoError(t, err)

	token, exp, err := iss.Issue(domain.User{ID: 42, Username: "ada", IsAdmin: true})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	p, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, &domain.Principal{UserID: 42, Username: "ada", IsAdmin: true}, p)
}

func TestIssuer_Parse_Rejects(t *testing.T) {
	iss, err := NewIssuer("s3cret", time.Hour)
	require.NoError(t, err)
	other, err := NewIssuer("other", time.Hour)
	require.NoError(t, err)
	expired, err := NewIssuer("s3cret", time.Hour)
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	foreign, _, err := other.Issue(domain.User{ID: 1})
	require.NoError(t, err)
	stale, _, err := expired.Issue(domain.User{ID: 1})
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"alg none", unsigned},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := iss.Parse(tc.token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestNewIssuer_EmptySecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.Error(t, err)
}

func TestPrincipalContext(t *testing.T) {
	assert.Nil(t, PrincipalFrom(context.Background()))

	p := &domain.Principal{UserID: 3}
	assert.Same(t, p, PrincipalFrom(WithPrincipal(context.Background(), p)))
}

func TestOwnership(t *testing.T) {
	owner := int64(3)
	user := &domain.Principal{UserID: 3}
	stranger := &domain.Principal{UserID: 4}
	admin := &domain.Principal{UserID: 9, IsAdmin: true}

	assert.True(t, IsOwnerOrAdmin(user, &owner))
	assert.False(t, IsOwnerOrAdmin(stranger, &owner))
	assert.True(t, IsOwnerOrAdmin(admin, &owner))
	assert.False(t, IsOwnerOrAdmin(nil, &owner))
	assert.False(t, IsOwnerOrAdmin(user, nil), "guest resources need an admin")
	assert.True(t, IsOwnerOrAdmin(admin, nil))

	assert.True(t, CanView(nil, nil), "guest bookings are readable by id")
	assert.False(t, CanView(nil, &owner))
	assert.False(t, CanView(stranger, &owner))
	assert.True(t, CanView(user, &owner))
}
