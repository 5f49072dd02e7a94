// Package sessions declares the server-side repository contract for session
// tokens, with PostgreSQL and in-memory implementations.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/chatroom/internal/server/models"
)

// Repository defines operations for issuing, looking up and revoking sessions.
type Repository interface {
	// Create stores a new active session for userID under the opaque token.
	Create(ctx context.Context, userID string, token string) (*models.Session, error)

	// Find looks up a session by its token. Implementations return
	// common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.Session, error)

	// RevokeForUser marks every active session of userID inactive and
	// returns how many changed. Revoking nothing is not an error.
	RevokeForUser(ctx context.Context, userID string) (int64, error)
}
