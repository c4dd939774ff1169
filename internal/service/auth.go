package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/hotel-booking/internal/auth"
	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/repo"
)

const minPasswordLength = 8

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// AuthService registers users and exchanges credentials for bearer tokens.
type AuthService struct {
	users  repo.UserRepo
	issuer *auth.Issuer
	logger *slog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, issuer *auth.Issuer, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, issuer: issuer, logger: logger}
}

// Register creates a non-admin user with a bcrypt-hashed password and logs
// them in. Returns domain.ErrDuplicate if the username or email is taken.
func (s *AuthService) Register(ctx context.Context, u domain.User, password string) (Session, error) {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	switch {
	case u.Username == "":
		return Session{}, fmt.Errorf("%w: username is required", domain.ErrValidation)
	case len(password) < minPasswordLength:
		return Session{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if !validEmail(u.Email) {
		return Session{}, fmt.Errorf("%w: email is invalid", domain.ErrValidation)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	u.PasswordHash = hash
	u.IsAdmin = false

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", created.ID)
	return s.session(created)
}

// Login verifies the credentials and returns a signed session token.
// Unknown users and wrong passwords both yield domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (Session, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "login failed", "user_id", u.ID)
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}
	return s.session(u)
}

// Me returns the user behind a principal.
func (s *AuthService) Me(ctx context.Context, p *domain.Principal) (domain.User, error) {
	if p == nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", domain.ErrUnauthorized)
	}
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", err)
	}
	return u, nil
}

func (s *AuthService) session(u domain.User) (Session, error) {
	token, exp, err := s.issuer.Issue(u)
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService: %w", err)
	}
	return Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
