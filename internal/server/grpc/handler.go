package grpc

import (
	"context"

	"github.com/dmitrijs2005/chatroom/internal/chatpb"
	"github.com/dmitrijs2005/chatroom/internal/server/chat"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// fieldReader reads request fields and remembers the first type error.
type fieldReader struct {
	s   *structpb.Struct
	err error
}

func (r *fieldReader) str(key string) string {
	if r.err != nil {
		return ""
	}
	v, err := chatpb.String(r.s, key)
	r.err = err
	return v
}

func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

func resultStruct(res chat.Result) *structpb.Struct {
	fields := map[string]*structpb.Value{
		chatpb.FieldSuccess: structpb.NewBoolValue(res.Success),
		chatpb.FieldMessage: structpb.NewStringValue(res.Message),
	}
	if res.UserID != "" {
		fields[chatpb.FieldUserID] = structpb.NewStringValue(res.UserID)
	}
	if res.SessionToken != "" {
		fields[chatpb.FieldSessionToken] = structpb.NewStringValue(res.SessionToken)
	}
	return &structpb.Struct{Fields: fields}
}

func toWire(msgs []models.Message) []chatpb.ChatMessage {
	out := make([]chatpb.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chatpb.ChatMessage{ID: m.ID, Username: m.UserName, Message: m.Body, Timestamp: m.Timestamp})
	}
	return out
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := fieldReader{s: req}
	in := chat.RegisterRequest{
		Username:        r.str(chatpb.FieldUsername),
		Password:        r.str(chatpb.FieldPassword),
		ConfirmPassword: r.str(chatpb.FieldConfirmPassword),
		Email:           r.str(chatpb.FieldEmail),
	}
	if r.err != nil {
		return nil, invalidArgument(r.err)
	}

	return resultStruct(s.chat.Register(ctx, in)), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := fieldReader{s: req}
	username := r.str(chatpb.FieldUsername)
	password := r.str(chatpb.FieldPassword)
	if r.err != nil {
		return nil, invalidArgument(r.err)
	}

	return resultStruct(s.chat.Login(ctx, username, password)), nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := fieldReader{s: req}
	username := r.str(chatpb.FieldUsername)
	if r.err != nil {
		return nil, invalidArgument(r.err)
	}

	return resultStruct(s.chat.Logout(ctx, username)), nil
}

func (s *GRPCServer) SendMessage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := fieldReader{s: req}
	username := r.str(chatpb.FieldUsername)
	body := r.str(chatpb.FieldMessage)
	if r.err != nil {
		return nil, invalidArgument(r.err)
	}

	res := s.chat.PostMessage(ctx, username, body)

	fields := map[string]*structpb.Value{
		chatpb.FieldSuccess: structpb.NewBoolValue(res.Success),
		chatpb.FieldMessage: structpb.NewStringValue(res.Message),
	}
	if res.Stored != nil {
		fields[chatpb.FieldID] = structpb.NewNumberValue(float64(res.Stored.ID))
		fields[chatpb.FieldTimestamp] = structpb.NewStringValue(res.Stored.Timestamp.UTC().Format(chatpb.TimestampLayout))
	}
	return &structpb.Struct{Fields: fields}, nil
}

func (s *GRPCServer) GetMessages(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	lastID := chatpb.LastID(req)

	msgs := s.chat.GetMessages(ctx, lastID)
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		chatpb.FieldMessages: chatpb.MessagesValue(toWire(msgs)),
	}}, nil
}

func (s *GRPCServer) Fetch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	lastID := chatpb.LastID(req)

	res := s.chat.Fetch(ctx, lastID)
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		chatpb.FieldSuccess:     structpb.NewBoolValue(res.Success),
		chatpb.FieldMessage:     structpb.NewStringValue(res.Message),
		chatpb.FieldMessages:    chatpb.MessagesValue(toWire(res.Messages)),
		chatpb.FieldOnlineUsers: chatpb.StringsValue(res.OnlineUsers),
	}}, nil
}

func (s *GRPCServer) GetOnlineUsers(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		chatpb.FieldUsers: chatpb.StringsValue(s.chat.GetOnlineUsers(ctx)),
	}}, nil
}

func (s *GRPCServer) GetTotalMessages(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return wrapperspb.Int64(s.chat.GetTotalMessages(ctx)), nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		chatpb.FieldStatus: structpb.NewStringValue("OK"),
	}}, nil
}
