package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/chatroom/internal/server/repositories/messages"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Its InTx only
// serializes callers; nothing is rolled back.
type MemoryRepositoryManager struct {
	txMu     sync.Mutex
	users    *users.MemoryRepository
	sessions *sessions.MemoryRepository
	messages *messages.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
		messages: messages.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository       { return m.users }
func (m *MemoryRepositoryManager) Sessions() sessions.Repository { return m.sessions }
func (m *MemoryRepositoryManager) Messages() messages.Repository { return m.messages }

func (m *MemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }
