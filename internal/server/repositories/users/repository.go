// Package users declares the credential store repository and its
// PostgreSQL and in-memory implementations.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/server/models"
)

// Repository persists user records and their presence flag.
type Repository interface {
	// Create stores a new user and fills in ID and JoinedAt. A taken username
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin returns common.ErrorNotFound for an unknown username.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)

	// SetOnline flips the presence flag of userID. last_login is set to at
	// only when the user goes from offline to online.
	SetOnline(ctx context.Context, userID string, online bool, at time.Time) error

	// ListOnline returns usernames with is_online set, in byte-wise order.
	ListOnline(ctx context.Context) ([]string, error)
}
