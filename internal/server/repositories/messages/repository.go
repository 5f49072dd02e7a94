// Package messages declares the append-only message log repository and its
// PostgreSQL and in-memory implementations.
package messages

import (
	"context"

	"github.com/dmitrijs2005/chatroom/internal/server/models"
)

// Repository is the single authority for message IDs.
type Repository interface {
	// Append assigns the next ID to msg and stores it. The PostgreSQL
	// implementation must be called inside a transaction so that the counter
	// increment and the insert commit together.
	Append(ctx context.Context, msg *models.Message) (*models.Message, error)

	// ReadSince returns up to limit messages with ID > lastID, ascending.
	ReadSince(ctx context.Context, lastID int64, limit int) ([]models.Message, error)

	// Count returns the number of messages ever appended.
	Count(ctx context.Context) (int64, error)
}
