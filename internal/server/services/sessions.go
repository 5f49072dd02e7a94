package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"github.com/dmitrijs2005/chatroom/internal/server/config"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/repomanager"
)

// SessionService issues and invalidates opaque session tokens. Tokens are
// informational for front-ends; calls are authorized by username.
type SessionService struct {
	repomanager repomanager.RepositoryManager
	store       storeGuard
}

func NewSessionService(m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{repomanager: m, store: newStoreGuard(cfg)}
}

// Issue persists a new active session for userID and returns its token.
func (s *SessionService) Issue(ctx context.Context, userID string) (string, error) {
	token, err := common.MakeRandHexString(common.SessionTokenBytes)
	if err != nil {
		return "", common.ErrorInternal
	}

	err = s.store.call(ctx, func(ctx context.Context) error {
		_, err := s.repomanager.Sessions().Create(ctx, userID, token)
		return err
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// RevokeForUser deactivates every active session of username and reports how
// many there were. An unknown user has none.
func (s *SessionService) RevokeForUser(ctx context.Context, username string) (int64, error) {
	var revoked int64
	err := s.store.call(ctx, func(ctx context.Context) error {
		user, err := s.repomanager.Users().GetUserByLogin(ctx, username)
		if err != nil {
			return err
		}
		revoked, err = s.repomanager.Sessions().RevokeForUser(ctx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return revoked, nil
}

// IsActive reports whether token names a live session.
func (s *SessionService) IsActive(ctx context.Context, token string) (bool, error) {
	var active bool
	err := s.store.call(ctx, func(ctx context.Context) error {
		session, err := s.repomanager.Sessions().Find(ctx, token)
		if err != nil {
			return err
		}
		active = session.IsActive
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return active, nil
}
