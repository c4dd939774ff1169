// Package auth issues and verifies bearer tokens and carries the authenticated
// principal through a request context.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/pkordes/hotel-booking/internal/domain"
)

// claims is the JWT payload. The subject holds the user id.
type claims struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. An empty secret is rejected so a misconfigured
// server can never accept unsigned tokens.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("auth.NewIssuer: secret must not be empty")
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for user and its expiry time.
func (i *Issuer) Issue(user domain.User) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	c := claims{
		Username: user.Username,
		Admin:    user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth.Issuer.Issue: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies token and returns the principal it names.
// Any failure (bad signature, wrong algorithm, expiry, malformed subject)
// is reported as domain.ErrUnauthorized.
func (i *Issuer) Parse(token string) (*domain.Principal, error) {
	var c claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("auth.Issuer.Parse: %w", domain.ErrUnauthorized)
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("auth.Issuer.Parse: subject: %w", domain.ErrUnauthorized)
	}
	return &domain.Principal{UserID: id, Username: c.Username, IsAdmin: c.Admin}, nil
}
