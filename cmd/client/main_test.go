package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/chatpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer

	assert.ErrorIs(t, run(nil, &out), errUsage)
	assert.ErrorIs(t, run([]string{"-a", "127.0.0.1:1", "dance"}, &out), errUsage)
	assert.ErrorIs(t, run([]string{"-a", "127.0.0.1:1", "login"}, &out), errUsage)
	assert.ErrorIs(t, run([]string{"-a", "127.0.0.1:1", "login", "alice", "pw", "extra"}, &out), errUsage)
	assert.ErrorIs(t, run([]string{"-a", "127.0.0.1:1", "register", "a", "b", "c", "d", "e"}, &out), errUsage)
	assert.Error(t, run([]string{"-nosuchflag"}, &out))
}

func TestPrintMessages(t *testing.T) {
	var out bytes.Buffer
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	printMessages(&out, []chatpb.ChatMessage{
		{ID: 1, Username: "alice", Message: "hi", Timestamp: ts},
		{ID: 2, Username: "bob", Message: "yo", Timestamp: ts},
	})

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "[1]")
	assert.Contains(t, string(lines[0]), "alice: hi")
	assert.Contains(t, string(lines[1]), "bob: yo")
}

// stubPasswords makes readPassword return the given answers in order.
func stubPasswords(t *testing.T, answers ...string) *int {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	calls := 0
	readPassword = func(int) ([]byte, error) {
		if calls >= len(answers) {
			return nil, errors.New("unexpected prompt")
		}
		calls++
		return []byte(answers[calls-1]), nil
	}
	return &calls
}

func TestLoginArgs_PromptsWhenPasswordOmitted(t *testing.T) {
	calls := stubPasswords(t, "secret1")
	var out bytes.Buffer

	got, err := loginArgs([]string{"alice"}, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "secret1"}, got)
	assert.Equal(t, 1, *calls)
	assert.Contains(t, out.String(), "Password: ")
	assert.NotContains(t, out.String(), "secret1", "password is never echoed")
}

func TestLoginArgs_PositionalPasswordSkipsPrompt(t *testing.T) {
	calls := stubPasswords(t)

	got, err := loginArgs([]string{"alice", "secret1"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "secret1"}, got)
	assert.Zero(t, *calls)
}

func TestRegisterArgs(t *testing.T) {
	t.Run("prompts for password and confirmation", func(t *testing.T) {
		calls := stubPasswords(t, "secret1", "secret2")
		var out bytes.Buffer

		got, err := registerArgs([]string{"alice"}, &out)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "secret1", "secret2", ""}, got)
		assert.Equal(t, 2, *calls)
		assert.Contains(t, out.String(), "Confirm password: ")
	})

	t.Run("positional password doubles as confirmation", func(t *testing.T) {
		stubPasswords(t)

		got, err := registerArgs([]string{"alice", "secret1"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "secret1", "secret1", ""}, got)
	})

	t.Run("all positional", func(t *testing.T) {
		stubPasswords(t)

		got, err := registerArgs([]string{"alice", "secret1", "secret1", "a@example.com"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "secret1", "secret1", "a@example.com"}, got)
	})
}

func TestPromptPassword_ReadError(t *testing.T) {
	stubPasswords(t)

	_, err := loginArgs([]string{"alice"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read password")

	err = run([]string{"-a", "127.0.0.1:1", "register", "alice"}, &bytes.Buffer{})
	assert.Error(t, err)
}
