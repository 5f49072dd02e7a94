package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"github.com/dmitrijs2005/chatroom/internal/cryptox"
	"github.com/dmitrijs2005/chatroom/internal/server/config"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/repomanager"
)

// UserService is the credential store: registration, credential checks and
// the is_online flag that presence is derived from.
type UserService struct {
	repomanager repomanager.RepositoryManager
	store       storeGuard
	now         func() time.Time
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{repomanager: m, store: newStoreGuard(cfg), now: time.Now}
}

// Register creates an offline user. The username is stored as given; a taken
// name yields common.ErrDuplicateUser, also when two registrations race.
func (s *UserService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	if username == "" {
		return nil, common.ErrInvalidUsername
	}
	if password == "" {
		return nil, common.ErrInvalidPasswordFormat
	}

	salt := cryptox.NewSalt()
	user := &models.User{
		UserName: username,
		Salt:     salt,
		Verifier: cryptox.MakeVerifier(password, salt),
		Email:    email,
	}

	var created *models.User
	err := s.store.call(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repomanager.Users().Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateUser
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// VerifyCredentials checks password against the stored verifier. An unknown
// user still pays for one key derivation so both failures take similar time.
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			_ = cryptox.MakeVerifier(password, cryptox.NewSalt())
		}
		return nil, err
	}

	if !cryptox.CheckVerifier(password, user.Salt, user.Verifier) {
		return nil, common.ErrInvalidPassword
	}
	return user, nil
}

// GetByUsername returns common.ErrUserNotFound for an unknown name.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user *models.User
	err := s.store.call(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repomanager.Users().GetUserByLogin(ctx, username)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetOnline is idempotent. Going online stamps last_login.
func (s *UserService) SetOnline(ctx context.Context, userID string, online bool) error {
	return s.store.call(ctx, func(ctx context.Context) error {
		return s.repomanager.Users().SetOnline(ctx, userID, online, s.now().UTC())
	})
}

// ListOnlineUsernames returns online usernames sorted lexicographically.
func (s *UserService) ListOnlineUsernames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.store.call(ctx, func(ctx context.Context) error {
		var err error
		names, err = s.repomanager.Users().ListOnline(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
