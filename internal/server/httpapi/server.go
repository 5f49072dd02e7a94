// Package httpapi exposes the chat facade as a small JSON API served by echo,
// together with a health probe and the Prometheus scrape endpoint.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/logging"
	"github.com/dmitrijs2005/chatroom/internal/metrics"
	"github.com/dmitrijs2005/chatroom/internal/server/chat"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

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

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HTTPServer struct {
	address string
	chat    ChatService
	store   Pinger
	logger  logging.Logger
	echo    *echo.Echo
}

func NewHTTPServer(a string, l logging.Logger, c ChatService, p Pinger) *HTTPServer {
	s := &HTTPServer{
		address: a,
		chat:    c,
		store:   p,
		logger:  l.With("module", "http_server"),
	}
	s.echo = s.newEcho()
	return s
}

func (s *HTTPServer) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(s.metricsMiddleware)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug(c.Request().Context(), "HTTP request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("8K"))

	api := e.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/logout", s.logout)
	api.POST("/messages", s.sendMessage)
	api.GET("/messages", s.getMessages)
	api.GET("/messages/count", s.getTotalMessages)
	api.GET("/online", s.getOnlineUsers)
	api.GET("/fetch", s.fetch)

	e.GET("/healthz", s.healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// Handler exposes the router, e.g. for httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request().Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return nil
	}
}
