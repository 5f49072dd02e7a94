package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterAndVerify(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	u, err := s.users.Register(ctx, "alice", "secret1", "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.IsOnline)
	assert.NotEqual(t, []byte("secret1"), u.Verifier)

	got, err := s.users.VerifyCredentials(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.users.VerifyCredentials(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidPassword)
	assert.ErrorIs(t, err, common.ErrAuth)

	_, err = s.users.VerifyCredentials(ctx, "bob", "secret1")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUserService_RegisterRejectsEmptyFields(t *testing.T) {
	s := newTestServices(t)

	_, err := s.users.Register(context.Background(), "", "secret1", "")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.users.Register(context.Background(), "alice", "", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUserService_UsernamesAreCaseSensitive(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.users.Register(ctx, "alice", "secret1", "")
	require.NoError(t, err)
	_, err = s.users.Register(ctx, "Alice", "secret1", "")
	require.NoError(t, err)

	_, err = s.users.Register(ctx, "alice", "other12", "")
	assert.ErrorIs(t, err, common.ErrDuplicateUser)
}

func TestUserService_ConcurrentDuplicateRegistration(t *testing.T) {
	s := newTestServices(t)

	const n = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, dup := 0, 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.users.Register(context.Background(), "carol", "secret1", "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, common.ErrDuplicateUser):
				dup++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestUserService_SetOnlineAndList(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	b, err := s.users.Register(ctx, "bob", "secret1", "")
	require.NoError(t, err)
	a, err := s.users.Register(ctx, "alice", "secret1", "")
	require.NoError(t, err)

	require.NoError(t, s.users.SetOnline(ctx, b.ID, true))
	require.NoError(t, s.users.SetOnline(ctx, a.ID, true))
	require.NoError(t, s.users.SetOnline(ctx, a.ID, true))

	names, err := s.users.ListOnlineUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, names)

	got, err := s.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)
}

func TestUserService_StoreFailure(t *testing.T) {
	s := newTestServices(t)
	s.manager.users = &failingUsers{err: errors.New("connection reset")}

	_, err := s.users.Register(context.Background(), "alice", "secret1", "")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)

	_, err = s.users.VerifyCredentials(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)

	_, err = s.users.ListOnlineUsernames(context.Background())
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}
