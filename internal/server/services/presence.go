package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/chatroom/internal/common"
)

// PresenceService is the online roster. It owns no state of its own; the
// roster is the set of users whose is_online flag is set.
type PresenceService struct {
	users *UserService
}

func NewPresenceService(users *UserService) *PresenceService {
	return &PresenceService{users: users}
}

func (s *PresenceService) MarkOnline(ctx context.Context, userID string) error {
	return s.users.SetOnline(ctx, userID, true)
}

// MarkOffline is a no-op for unknown or already offline users.
func (s *PresenceService) MarkOffline(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !user.IsOnline {
		return nil
	}
	return s.users.SetOnline(ctx, user.ID, false)
}

// Online lists online usernames in lexicographic order.
func (s *PresenceService) Online(ctx context.Context) ([]string, error) {
	return s.users.ListOnlineUsernames(ctx)
}
