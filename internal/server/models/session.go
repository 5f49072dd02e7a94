package models

import "time"

// Session is an opaque login token. Logout flips IsActive instead of
// deleting the row.
type Session struct {
	ID        string
	UserID    string
	Token     string
	IsActive  bool
	CreatedAt time.Time
}
