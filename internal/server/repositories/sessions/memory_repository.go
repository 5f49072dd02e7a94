package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps sessions in process memory.
type MemoryRepository struct {
	mu      sync.Mutex
	byToken map[string]*models.Session
	byUser  map[string][]*models.Session
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byToken: make(map[string]*models.Session),
		byUser:  make(map[string][]*models.Session),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, userID string, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byToken[token]; ok {
		return nil, common.ErrorAlreadyExists
	}

	s := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	r.byToken[token] = s
	r.byUser[userID] = append(r.byUser[userID], s)

	c := *s
	return &c, nil
}

func (r *MemoryRepository) Find(ctx context.Context, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *s
	return &c, nil
}

func (r *MemoryRepository) RevokeForUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, s := range r.byUser[userID] {
		if s.IsActive {
			s.IsActive = false
			n++
		}
	}
	return n, nil
}
