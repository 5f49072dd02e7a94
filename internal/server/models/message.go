package models

import "time"

// Message is one immutable entry of the room log. ID is assigned by the
// message log, starts at 1 and strictly increases.
type Message struct {
	ID        int64
	UserID    string
	UserName  string
	Body      string
	Timestamp time.Time
}
