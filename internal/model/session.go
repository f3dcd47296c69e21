package model

import (
	"time"
)

type Session struct {
	ID        string    `db:"id"`
	UserID    *int64    `db:"user_id"`
	IsAdmin   bool      `db:"is_admin"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Caller returns the authorization view of a live session.
func (s *Session) Caller() Caller {
	return Caller{
		Authenticated: true,
		UserID:        s.UserID,
		IsAdmin:       s.IsAdmin,
	}
}

// Caller is the per-request authorization context. The zero value is an
// anonymous visitor. It is resolved once by the auth middleware and passed
// by value to every service that makes an access decision.
type Caller struct {
	Authenticated bool
	UserID        *int64
	IsAdmin       bool
}

// Owns reports whether the caller is the recorded owner. Resources without
// an owner are owned by nobody.
func (c Caller) Owns(ownerID *int64) bool {
	return c.UserID != nil && ownerID != nil && *c.UserID == *ownerID
}
