package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionState is the lifecycle of the per-request session:
// unauthenticated -> resolving -> resolved | no_profile.
type SessionState string

const (
	Unauthenticated SessionState = "unauthenticated"
	Resolving       SessionState = "resolving"
	Resolved        SessionState = "resolved"
	NoProfile       SessionState = "no_profile"
)

// Session is built by the auth middleware and handed to handlers through SessionFrom.
type Session struct {
	State     SessionState `json:"state"`
	UserID    uuid.UUID    `json:"user_id,omitempty"`
	Role      string       `json:"role,omitempty"`
	FullName  string       `json:"full_name,omitempty"`
	Class     *int         `json:"class,omitempty"`
	ExpiresAt time.Time    `json:"expires_at,omitempty"`
}

const localsSession = "session"

var anonymous = Session{State: Unauthenticated}

// SessionFrom returns the request's session. It is never nil.
func SessionFrom(c *fiber.Ctx) *Session {
	if s, ok := c.Locals(localsSession).(*Session); ok && s != nil {
		return s
	}
	s := anonymous
	return &s
}

func setSession(c *fiber.Ctx, s *Session) { c.Locals(localsSession, s) }

// begin moves an anonymous session to resolving once a valid token names the user.
func (s *Session) begin(userID uuid.UUID, exp time.Time) {
	if s.State != Unauthenticated {
		return
	}
	s.State = Resolving
	s.UserID = userID
	s.ExpiresAt = exp
}

func (s *Session) resolve(p *Profile) {
	if s.State != Resolving {
		return
	}
	if p == nil {
		s.State = NoProfile
		return
	}
	s.State = Resolved
	s.Role = p.Role
	s.FullName = p.FullName
	s.Class = p.Class
}

// Authenticated is true once a token was accepted, with or without a profile.
func (s *Session) Authenticated() bool {
	return s.State == Resolved || s.State == NoProfile
}

// HasRole is false for every session without a resolved profile.
func (s *Session) HasRole(roles ...string) bool {
	if s.State != Resolved {
		return false
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}
