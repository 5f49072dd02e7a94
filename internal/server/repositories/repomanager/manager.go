// Package repomanager wires the concrete repositories of one storage backend
// behind a single interface the services depend on.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/chatroom/internal/server/repositories/messages"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/users"
)

// Repositories gives access to the per-entity repositories.
type Repositories interface {
	Users() users.Repository
	Sessions() sessions.Repository
	Messages() messages.Repository
}

// RepositoryManager is a storage backend.
type RepositoryManager interface {
	Repositories

	// InTx runs fn with repositories bound to one transaction. It commits when
	// fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error

	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
