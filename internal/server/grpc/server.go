// Package grpc exposes the chat facade as the chatroom.ChatService gRPC
// service, alongside the standard health service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/chatroom/internal/chatpb"
	"github.com/dmitrijs2005/chatroom/internal/logging"
	"github.com/dmitrijs2005/chatroom/internal/server/chat"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ChatService is what the transport needs from the chat facade.
type ChatService interface {
	Register(ctx context.Context, req chat.RegisterRequest) chat.Result
	Login(ctx context.Context, username, password string) chat.Result
	Logout(ctx context.Context, username string) chat.Result
	PostMessage(ctx context.Context, username, body string) chat.PostResult
	Fetch(ctx context.Context, lastID int64) chat.FetchResult
	GetMessages(ctx context.Context, lastID int64) []models.Message
	GetOnlineUsers(ctx context.Context) []string
	GetTotalMessages(ctx context.Context) int64
}

type GRPCServer struct {
	address string
	chat    ChatService
	logger  logging.Logger
	health  *health.Server
}

func NewGRPCServer(a string, l logging.Logger, c ChatService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		chat:    c,
		health:  health.NewServer(),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metricsInterceptor,
		s.loggingInterceptor,
		s.recoveryInterceptor,
	))

	RegisterChatServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(chatpb.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
