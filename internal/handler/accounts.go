package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/hotel-booking/internal/auth"
	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/service"
)

// User is the public view of an account. The password hash never leaves the server.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// SessionResponse carries a bearer token and the user it was issued to.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Register handles POST /api/auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	sess, err := s.accounts.Register(r.Context(), domain.User{
		Username: body.Username,
		Email:    body.Email,
		Name:     body.Name,
		Phone:    body.Phone,
	}, body.Password)
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, sessionToResponse(sess))
}

// Login handles POST /api/auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	sess, err := s.accounts.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		s.serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// GetSession handles GET /api/auth/session. Requires authentication.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	u, err := s.accounts.Me(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		s.serviceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(u))
}

func userToResponse(u domain.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func sessionToResponse(sess service.Session) SessionResponse {
	return SessionResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      userToResponse(sess.User),
	}
}
