package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"github.com/dmitrijs2005/chatroom/internal/server/config"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/repomanager"
)

// MessageService is the append-only message log.
type MessageService struct {
	repomanager repomanager.RepositoryManager
	users       *UserService
	store       storeGuard
}

func NewMessageService(m repomanager.RepositoryManager, users *UserService, cfg *config.Config) *MessageService {
	return &MessageService{repomanager: m, users: users, store: newStoreGuard(cfg)}
}

// Append validates body, resolves the author and stores the message under the
// next ID. A rejected message consumes no ID.
func (s *MessageService) Append(ctx context.Context, username, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, common.ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > common.MaxMessageLength {
		return nil, common.ErrMessageTooLong
	}

	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrAuthorUnknown
		}
		return nil, err
	}

	var stored *models.Message
	err = s.store.call(ctx, func(ctx context.Context) error {
		return s.repomanager.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
			msg := &models.Message{
				UserID:   author.ID,
				UserName: author.UserName,
				Body:     body,
			}
			var err error
			stored, err = r.Messages().Append(ctx, msg)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// ReadSince returns at most one page of messages with ID greater than lastID,
// oldest first. A negative lastID reads from the start.
func (s *MessageService) ReadSince(ctx context.Context, lastID int64) ([]models.Message, error) {
	if lastID < 0 {
		lastID = 0
	}

	var page []models.Message
	err := s.store.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.repomanager.Messages().ReadSince(ctx, lastID, common.MessagePageSize)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Count returns the number of stored messages.
func (s *MessageService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.store.call(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.repomanager.Messages().Count(ctx)
		return err
	})
	return n, err
}
