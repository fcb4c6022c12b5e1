package model

import "time"

// SessionUser is the minimal reference to the authenticated account kept in a session.
type SessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Session struct {
	ID        string
	User      *SessionUser
	Captcha   string
	Created   time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether a user has logged in on this session.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// Expired reports whether the session is past its lifetime at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
