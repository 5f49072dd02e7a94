// Package services contains the chat server's business logic: the credential
// store, the session manager, the message log and the presence tracker. Each
// service is stateless over a repomanager.RepositoryManager.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"github.com/dmitrijs2005/chatroom/internal/dbx"
	"github.com/dmitrijs2005/chatroom/internal/server/config"
)

// storeGuard bounds every repository call with a timeout and at most one
// reconnect attempt.
type storeGuard struct {
	timeout    time.Duration
	retryDelay time.Duration
}

func newStoreGuard(cfg *config.Config) storeGuard {
	return storeGuard{timeout: cfg.StoreTimeout, retryDelay: cfg.StoreRetryDelay}
}

// call runs fn. Repository-level not-found and conflict errors come back
// unchanged; anything else is reported as common.ErrStoreUnavailable.
func (g storeGuard) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	err := dbx.WithReconnect(ctx, g.retryDelay, fn)
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrConflict) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
}
