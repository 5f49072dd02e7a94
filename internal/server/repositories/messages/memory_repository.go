package messages

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/server/models"
)

// MemoryRepository keeps the log in a slice ordered by ID. ID assignment,
// timestamping and the append happen under one lock, so readers never see a
// hole and timestamps never go backwards as IDs grow.
type MemoryRepository struct {
	mu     sync.RWMutex
	lastID int64
	lastAt time.Time
	items  []models.Message
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

// Append assigns the next ID and the acceptance time, overriding
// msg.Timestamp.
func (r *MemoryRepository) Append(ctx context.Context, msg *models.Message) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := r.now().UTC()
	if at.Before(r.lastAt) {
		at = r.lastAt
	}

	r.lastID++
	r.lastAt = at
	msg.ID = r.lastID
	msg.Timestamp = at
	r.items = append(r.items, *msg)
	return msg, nil
}

func (r *MemoryRepository) ReadSince(ctx context.Context, lastID int64, limit int) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// IDs are 1..n with no holes, so the first message after lastID sits at
	// index lastID.
	start := lastID
	if start < 0 {
		start = 0
	}
	if start >= int64(len(r.items)) || limit <= 0 {
		return []models.Message{}, nil
	}

	end := start + int64(limit)
	if end > int64(len(r.items)) {
		end = int64(len(r.items))
	}

	result := make([]models.Message, end-start)
	copy(result, r.items[start:end])
	return result, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}
