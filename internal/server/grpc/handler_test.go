package grpc

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/chatroom/internal/chatpb"
	"github.com/dmitrijs2005/chatroom/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func insecureCreds() credentials.TransportCredentials { return insecure.NewCredentials() }

func TestChatService_EndToEnd(t *testing.T) {
	c, _ := startBufconn(t, NewGRPCServer("", logging.Nop{}, newFacade(t)))
	ctx := context.Background()

	pong, err := c.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OK", pong)

	reg, err := c.Register(ctx, "alice", "secret1", "secret1", "alice@example.com")
	require.NoError(t, err)
	require.True(t, reg.Success, reg.Message)

	dup, err := c.Register(ctx, "alice", "secret1", "", "")
	require.NoError(t, err)
	assert.False(t, dup.Success)
	assert.Equal(t, "Username already exists", dup.Message)

	bad, err := c.Login(ctx, "alice", "wrong-one")
	require.NoError(t, err)
	assert.False(t, bad.Success)
	assert.Empty(t, bad.SessionToken)

	login, err := c.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.True(t, login.Success, login.Message)
	assert.NotEmpty(t, login.UserID)
	assert.Len(t, login.SessionToken, 64)

	sent, err := c.SendMessage(ctx, "alice", "hello")
	require.NoError(t, err)
	require.True(t, sent.Success, sent.Message)
	assert.Equal(t, int64(1), sent.ID)
	assert.False(t, sent.Timestamp.IsZero())

	long, err := c.SendMessage(ctx, "alice", strings.Repeat("a", 501))
	require.NoError(t, err)
	assert.False(t, long.Success)
	assert.Zero(t, long.ID)

	msgs, err := c.GetMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice", msgs[0].Username)
	assert.Equal(t, "hello", msgs[0].Message)

	msgs, err = c.GetMessages(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	online, err := c.GetOnlineUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, online)

	total, err := c.GetTotalMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	fetch, err := c.Fetch(ctx, 0)
	require.NoError(t, err)
	assert.True(t, fetch.Success)
	assert.Len(t, fetch.Messages, 1)
	assert.Equal(t, []string{"alice"}, fetch.OnlineUsers)

	out, err := c.Logout(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, out.Success)

	online, err = c.GetOnlineUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, online)
}

func TestChatService_WrongFieldTypeIsInvalidArgument(t *testing.T) {
	_, raw := startBufconn(t, NewGRPCServer("", logging.Nop{}, newFacade(t)))

	in, err := structpb.NewStruct(map[string]any{"username": true, "password": "secret1"})
	require.NoError(t, err)

	err = raw.Invoke(context.Background(), chatpb.FullMethod(chatpb.MethodLogin), in, &structpb.Struct{})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	in, err = structpb.NewStruct(map[string]any{"username": "bob", "message": 42})
	require.NoError(t, err)

	err = raw.Invoke(context.Background(), chatpb.FullMethod(chatpb.MethodSendMessage), in, &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestChatService_MissingLastIDMeansFromStart(t *testing.T) {
	c, raw := startBufconn(t, NewGRPCServer("", logging.Nop{}, newFacade(t)))
	ctx := context.Background()

	_, err := c.Register(ctx, "bob", "secret1", "", "")
	require.NoError(t, err)
	_, err = c.SendMessage(ctx, "bob", "first")
	require.NoError(t, err)

	out := &structpb.Struct{}
	require.NoError(t, raw.Invoke(ctx, chatpb.FullMethod(chatpb.MethodGetMessages), &structpb.Struct{}, out))

	msgs, err := chatpb.Messages(out.GetFields()[chatpb.FieldMessages])
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "first", msgs[0].Message)
}

func TestChatService_MalformedLastIDMeansFromStart(t *testing.T) {
	c, raw := startBufconn(t, NewGRPCServer("", logging.Nop{}, newFacade(t)))
	ctx := context.Background()

	_, err := c.Register(ctx, "bob", "secret1", "", "")
	require.NoError(t, err)
	_, err = c.SendMessage(ctx, "bob", "first")
	require.NoError(t, err)
	_, err = c.SendMessage(ctx, "bob", "second")
	require.NoError(t, err)

	for name, v := range map[string]*structpb.Value{
		"garbage string": structpb.NewStringValue("abc"),
		"fraction":       structpb.NewNumberValue(1.5),
		"out of range":   structpb.NewNumberValue(1e19),
		"negative":       structpb.NewNumberValue(-4),
		"bool":           structpb.NewBoolValue(true),
	} {
		t.Run(name, func(t *testing.T) {
			req := &structpb.Struct{Fields: map[string]*structpb.Value{chatpb.FieldLastID: v}}

			out := &structpb.Struct{}
			require.NoError(t, raw.Invoke(ctx, chatpb.FullMethod(chatpb.MethodGetMessages), req, out))
			msgs, err := chatpb.Messages(out.GetFields()[chatpb.FieldMessages])
			require.NoError(t, err)
			require.Len(t, msgs, 2)
			assert.Equal(t, int64(1), msgs[0].ID)

			fetched := &structpb.Struct{}
			require.NoError(t, raw.Invoke(ctx, chatpb.FullMethod(chatpb.MethodFetch), req, fetched))
			msgs, err = chatpb.Messages(fetched.GetFields()[chatpb.FieldMessages])
			require.NoError(t, err)
			assert.Len(t, msgs, 2)
		})
	}

	req := &structpb.Struct{Fields: map[string]*structpb.Value{chatpb.FieldLastID: structpb.NewStringValue("1")}}
	out := &structpb.Struct{}
	require.NoError(t, raw.Invoke(ctx, chatpb.FullMethod(chatpb.MethodGetMessages), req, out))
	msgs, err := chatpb.Messages(out.GetFields()[chatpb.FieldMessages])
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "second", msgs[0].Message)
}
