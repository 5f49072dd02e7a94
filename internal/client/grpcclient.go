// Package client is a thin Go client for the chatroom.ChatService gRPC API,
// meant for front-ends, tools and end-to-end tests.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/chatpb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrBadResponse     = errors.New("malformed response")
)

// Result mirrors the server's register/login/logout result.
type Result struct {
	Success      bool
	Message      string
	UserID       string
	SessionToken string
}

// SendResult is the outcome of SendMessage. ID and Timestamp are set on
// success.
type SendResult struct {
	Success   bool
	Message   string
	ID        int64
	Timestamp time.Time
}

// FetchResult is new messages plus the roster.
type FetchResult struct {
	Success     bool
	Message     string
	Messages    []chatpb.ChatMessage
	OnlineUsers []string
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
}

// NewChatClient connects to endpointURL without TLS. Extra options are
// appended, e.g. a custom dialer in tests.
func NewChatClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{endpointURL: endpointURL, conn: conn}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) invoke(ctx context.Context, method string, in, out proto.Message) error {
	if err := c.conn.Invoke(ctx, chatpb.FullMethod(method), in, out); err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func request(fields map[string]any) *structpb.Struct {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		// only strings and integers are passed in
		panic(err)
	}
	return s
}

func decodeResult(s *structpb.Struct) (*Result, error) {
	r := &Result{Success: chatpb.Bool(s, chatpb.FieldSuccess)}
	var err error
	if r.Message, err = chatpb.String(s, chatpb.FieldMessage); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if r.UserID, err = chatpb.String(s, chatpb.FieldUserID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if r.SessionToken, err = chatpb.String(s, chatpb.FieldSessionToken); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return r, nil
}

func (c *GRPCClient) Register(ctx context.Context, username, password, confirmPassword, email string) (*Result, error) {
	in := request(map[string]any{
		chatpb.FieldUsername:        username,
		chatpb.FieldPassword:        password,
		chatpb.FieldConfirmPassword: confirmPassword,
		chatpb.FieldEmail:           email,
	})
	out := &structpb.Struct{}
	if err := c.invoke(ctx, chatpb.MethodRegister, in, out); err != nil {
		return nil, err
	}
	return decodeResult(out)
}

func (c *GRPCClient) Login(ctx context.Context, username, password string) (*Result, error) {
	in := request(map[string]any{chatpb.FieldUsername: username, chatpb.FieldPassword: password})
	out := &structpb.Struct{}
	if err := c.invoke(ctx, chatpb.MethodLogin, in, out); err != nil {
		return nil, err
	}
	return decodeResult(out)
}

func (c *GRPCClient) Logout(ctx context.Context, username string) (*Result, error) {
	in := request(map[string]any{chatpb.FieldUsername: username})
	out := &structpb.Struct{}
	if err := c.invoke(ctx, chatpb.MethodLogout, in, out); err != nil {
		return nil, err
	}
	return decodeResult(out)
}

func (c *GRPCClient) SendMessage(ctx context.Context, username, message string) (*SendResult, error) {
	in := request(map[string]any{chatpb.FieldUsername: username, chatpb.FieldMessage: message})
	out := &structpb.Struct{}
	if err := c.invoke(ctx, chatpb.MethodSendMessage, in, out); err != nil {
		return nil, err
	}

	res := &SendResult{Success: chatpb.Bool(out, chatpb.FieldSuccess)}
	var err error
	if res.Message, err = chatpb.String(out, chatpb.FieldMessage); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if res.ID, err = chatpb.Int64(out, chatpb.FieldID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	ts, err := chatpb.String(out, chatpb.FieldTimestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if ts != "" {
		if res.Timestamp, err = time.Parse(chatpb.TimestampLayout, ts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
	}
	return res, nil
}

func (c *GRPCClient) GetMessages(ctx context.Context, lastID int64) ([]chatpb.ChatMessage, error) {
	in := request(map[string]any{chatpb.FieldLastID: lastID})
	out := &structpb.Struct{}
	if err := c.invoke(ctx, chatpb.MethodGetMessages, in, out); err != nil {
		return nil, err
	}

	msgs, err := chatpb.Messages(out.GetFields()[chatpb.FieldMessages])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return msgs, nil
}

func (c *GRPCClient) Fetch(ctx context.Context, lastID int64) (*FetchResult, error) {
	in := request(map[string]any{chatpb.FieldLastID: lastID})
	out := &structpb.Struct{}
	if err := c.invoke(ctx, chatpb.MethodFetch, in, out); err != nil {
		return nil, err
	}

	res := &FetchResult{Success: chatpb.Bool(out, chatpb.FieldSuccess)}
	var err error
	if res.Message, err = chatpb.String(out, chatpb.FieldMessage); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if res.Messages, err = chatpb.Messages(out.GetFields()[chatpb.FieldMessages]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if res.OnlineUsers, err = chatpb.Strings(out.GetFields()[chatpb.FieldOnlineUsers]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return res, nil
}

func (c *GRPCClient) GetOnlineUsers(ctx context.Context) ([]string, error) {
	out := &structpb.Struct{}
	if err := c.invoke(ctx, chatpb.MethodGetOnlineUsers, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}

	users, err := chatpb.Strings(out.GetFields()[chatpb.FieldUsers])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return users, nil
}

func (c *GRPCClient) GetTotalMessages(ctx context.Context) (int64, error) {
	out := &wrapperspb.Int64Value{}
	if err := c.invoke(ctx, chatpb.MethodGetTotalMessages, &emptypb.Empty{}, out); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

func (c *GRPCClient) Ping(ctx context.Context) (string, error) {
	out := &structpb.Struct{}
	if err := c.invoke(ctx, chatpb.MethodPing, &emptypb.Empty{}, out); err != nil {
		return "", err
	}
	return chatpb.String(out, chatpb.FieldStatus)
}
