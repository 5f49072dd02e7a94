package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It is safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	byLogin map[string]*models.User
	byID    map[string]*models.User
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byLogin: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byLogin[user.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = uuid.NewString()
	user.JoinedAt = r.now()
	user.IsOnline = false
	user.LastLogin = nil

	stored := cloneUser(user)
	r.byLogin[stored.UserName] = stored
	r.byID[stored.ID] = stored

	return user, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byLogin[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryRepository) SetOnline(ctx context.Context, userID string, online bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	if online && !u.IsOnline {
		t := at
		u.LastLogin = &t
	}
	u.IsOnline = online
	return nil
}

func (r *MemoryRepository) ListOnline(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []string{}
	for name, u := range r.byLogin {
		if u.IsOnline {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result, nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Salt = append([]byte(nil), u.Salt...)
	c.Verifier = append([]byte(nil), u.Verifier...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}
