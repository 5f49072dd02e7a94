// Package models defines server-side data models persisted by the chat store.
package models

import "time"

// User is a registered chat participant. Only the salt and the argon2
// verifier of the password are kept.
type User struct {
	ID        string
	UserName  string
	Salt      []byte
	Verifier  []byte
	Email     string
	IsOnline  bool
	JoinedAt  time.Time
	LastLogin *time.Time
}
