package grpc

import (
	"context"

	"github.com/dmitrijs2005/chatroom/internal/chatpb"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ChatServiceServer is the server side of chatroom.ChatService.
type ChatServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SendMessage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMessages(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Fetch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOnlineUsers(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetTotalMessages(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error)
	Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// unary builds a grpc.MethodHandler that decodes into a fresh Req and
// dispatches through the interceptor chain.
func unary[Req proto.Message, Resp proto.Message](
	method string,
	newReq func() Req,
	call func(ChatServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChatServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: chatpb.FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ChatServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newEmpty() *emptypb.Empty    { return &emptypb.Empty{} }

// ChatServiceDesc registers a ChatServiceServer on a grpc.Server.
var ChatServiceDesc = grpc.ServiceDesc{
	ServiceName: chatpb.ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: chatpb.MethodRegister, Handler: unary(chatpb.MethodRegister, newStruct, ChatServiceServer.Register)},
		{MethodName: chatpb.MethodLogin, Handler: unary(chatpb.MethodLogin, newStruct, ChatServiceServer.Login)},
		{MethodName: chatpb.MethodLogout, Handler: unary(chatpb.MethodLogout, newStruct, ChatServiceServer.Logout)},
		{MethodName: chatpb.MethodSendMessage, Handler: unary(chatpb.MethodSendMessage, newStruct, ChatServiceServer.SendMessage)},
		{MethodName: chatpb.MethodGetMessages, Handler: unary(chatpb.MethodGetMessages, newStruct, ChatServiceServer.GetMessages)},
		{MethodName: chatpb.MethodFetch, Handler: unary(chatpb.MethodFetch, newStruct, ChatServiceServer.Fetch)},
		{MethodName: chatpb.MethodGetOnlineUsers, Handler: unary(chatpb.MethodGetOnlineUsers, newEmpty, ChatServiceServer.GetOnlineUsers)},
		{MethodName: chatpb.MethodGetTotalMessages, Handler: unary(chatpb.MethodGetTotalMessages, newEmpty, ChatServiceServer.GetTotalMessages)},
		{MethodName: chatpb.MethodPing, Handler: unary(chatpb.MethodPing, newEmpty, ChatServiceServer.Ping)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterChatServiceServer attaches srv to s.
func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatServiceDesc, srv)
}
