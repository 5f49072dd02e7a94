package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/server/config"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/messages"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/users"
)

func testConfig() *config.Config {
	return &config.Config{StoreTimeout: time.Second, StoreRetryDelay: time.Millisecond}
}

type testServices struct {
	manager  *patchedManager
	users    *UserService
	sessions *SessionService
	messages *MessageService
	presence *PresenceService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	m := &patchedManager{MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager()}
	cfg := testConfig()
	u := NewUserService(m, cfg)
	return &testServices{
		manager:  m,
		users:    u,
		sessions: NewSessionService(m, cfg),
		messages: NewMessageService(m, u, cfg),
		presence: NewPresenceService(u),
	}
}

// patchedManager lets a test swap single repositories of the memory backend.
type patchedManager struct {
	*repomanager.MemoryRepositoryManager
	users    users.Repository
	messages messages.Repository
}

func (m *patchedManager) Users() users.Repository {
	if m.users != nil {
		return m.users
	}
	return m.MemoryRepositoryManager.Users()
}

func (m *patchedManager) Messages() messages.Repository {
	if m.messages != nil {
		return m.messages
	}
	return m.MemoryRepositoryManager.Messages()
}

func (m *patchedManager) InTx(ctx context.Context, fn func(ctx context.Context, r repomanager.Repositories) error) error {
	return fn(ctx, m)
}

// failingMessages fails the first failures calls of every method with err.
type failingMessages struct {
	messages.Repository
	err      error
	failures int
	calls    int
}

func (f *failingMessages) fail() error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *failingMessages) Append(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.Repository.Append(ctx, msg)
}

func (f *failingMessages) ReadSince(ctx context.Context, lastID int64, limit int) ([]models.Message, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.Repository.ReadSince(ctx, lastID, limit)
}

func (f *failingMessages) Count(ctx context.Context) (int64, error) {
	if err := f.fail(); err != nil {
		return 0, err
	}
	return f.Repository.Count(ctx)
}

// failingUsers fails every call with err.
type failingUsers struct {
	err error
}

func (f *failingUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return nil, f.err
}

func (f *failingUsers) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return nil, f.err
}

func (f *failingUsers) SetOnline(ctx context.Context, userID string, online bool, at time.Time) error {
	return f.err
}

func (f *failingUsers) ListOnline(ctx context.Context) ([]string, error) {
	return nil, f.err
}
