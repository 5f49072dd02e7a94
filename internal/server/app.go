// Package server wires the chat server together: it opens the configured
// store, builds the services and the chat facade, and runs the gRPC and HTTP
// transports until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/chatroom/internal/logging"
	"github.com/dmitrijs2005/chatroom/internal/server/chat"
	"github.com/dmitrijs2005/chatroom/internal/server/config"
	"github.com/dmitrijs2005/chatroom/internal/server/httpapi"
	"github.com/dmitrijs2005/chatroom/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chatroom/internal/server/services"

	gs "github.com/dmitrijs2005/chatroom/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  repomanager.RepositoryManager
	chat   *chat.Facade
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(c, logging.NewJSONLogger(os.Stdout, c.LogLevel))
}

func newApp(c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	store, err := openStore(c, logger)
	if err != nil {
		return nil, err
	}

	us := services.NewUserService(store, c)
	f := chat.NewFacade(logger, us,
		services.NewSessionService(store, c),
		services.NewMessageService(store, us, c),
		services.NewPresenceService(us),
	)

	return &App{config: c, logger: logger, store: store, chat: f}, nil
}

func openStore(c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.StoreType == config.StoreMemory {
		logger.Info(context.Background(), "Using in-memory store")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	m, err := repomanager.OpenPostgres(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.StoreTimeout)
	defer cancel()

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	logger.Info(ctx, "Using PostgreSQL store")
	return m, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.chat)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.chat, app.store)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until ctx is cancelled, a termination signal
// arrives or either transport fails, then closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "store close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
