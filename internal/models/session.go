package models

import (
	"fmt"
	"time"
)

// Session is a signed-in browser session created by a successful login.
//
// The ID doubles as the cookie value. ExpiresAt slides forward every time the session is touched.
type Session struct {
	id        string
	sequence  int
	role      Role
	userAgent string
	createdAt time.Time
	updatedAt time.Time
	expiresAt time.Time
}

// NewSession creates a session for role that expires after idle.
func NewSession(role Role, userAgent string, idle time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		role:      role,
		userAgent: userAgent,
		createdAt: now,
		updatedAt: now,
		expiresAt: now.Add(idle),
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) Sequence() int        { return s.sequence }
func (s *Session) Role() Role           { return s.role }
func (s *Session) UserAgent() string    { return s.userAgent }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

func (s *Session) SetID(id string)          { s.id = id }
func (s *Session) SetSequence(seq int)      { s.sequence = seq }
func (s *Session) SetCreatedAt(t time.Time) { s.createdAt = t }
func (s *Session) SetUpdatedAt(t time.Time) { s.updatedAt = t }
func (s *Session) SetExpiresAt(t time.Time) { s.expiresAt = t }
func (s *Session) SetUserAgent(ua string)   { s.userAgent = ua }

// Expired reports whether the session's idle window has passed at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

// Touch records activity at now and extends the idle window.
func (s *Session) Touch(now time.Time, idle time.Duration) {
	s.updatedAt = now
	s.expiresAt = now.Add(idle)
}

// Validate checks that the session has an ID and a signed-in role.
func (s *Session) Validate() error {
	if s.id == "" {
		return fmt.Errorf("session id is required")
	}
	if s.role != RoleUser && s.role != RoleAdmin {
		return fmt.Errorf("session role must be user or admin, got %s", s.role)
	}
	if s.expiresAt.IsZero() {
		return fmt.Errorf("session expiry is required")
	}
	return nil
}
