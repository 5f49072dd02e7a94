// Package chat is the remote-callable surface of the chat server. Every
// operation validates its input, drives the services and folds any failure
// into a structured result, so transports never see an error or a panic.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"github.com/dmitrijs2005/chatroom/internal/logging"
	"github.com/dmitrijs2005/chatroom/internal/metrics"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
	"github.com/dmitrijs2005/chatroom/internal/server/services"
)

type Facade struct {
	users    *services.UserService
	sessions *services.SessionService
	messages *services.MessageService
	presence *services.PresenceService
	logger   logging.Logger
}

func NewFacade(l logging.Logger, us *services.UserService, ss *services.SessionService, ms *services.MessageService, ps *services.PresenceService) *Facade {
	return &Facade{
		users:    us,
		sessions: ss,
		messages: ms,
		presence: ps,
		logger:   l.With("module", "chat"),
	}
}

// recoverTo turns a panic in the deferring operation into fallback.
func recoverTo[T any](ctx context.Context, l logging.Logger, op string, out *T, fallback T) {
	if p := recover(); p != nil {
		l.Error(ctx, "panic recovered", "op", op, "panic", fmt.Sprint(p))
		*out = fallback
	}
}

func (f *Facade) Register(ctx context.Context, req RegisterRequest) (res Result) {
	defer recoverTo(ctx, f.logger, "register", &res, Result{Message: msgInternal})

	req = req.normalize()
	if err := req.validate(); err != nil {
		return Result{Message: userMessage(err)}
	}

	u, err := f.users.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		f.logFailure(ctx, "register", err, "username", req.Username)
		return Result{Message: userMessage(err)}
	}

	metrics.UsersRegistered.Inc()
	f.logger.Info(ctx, "Registered", "username", u.UserName, "user_id", u.ID)
	return Result{Success: true, Message: msgRegistered}
}

// Login verifies credentials, issues a session token and puts the user
// online. Failed logins leave presence untouched.
func (f *Facade) Login(ctx context.Context, username, password string) (res Result) {
	defer recoverTo(ctx, f.logger, "login", &res, Result{Message: msgInternal})

	username = normalizeUsername(username)
	u, err := f.users.VerifyCredentials(ctx, username, password)
	if err != nil {
		metrics.Logins.WithLabelValues("failure").Inc()
		f.logFailure(ctx, "login", err, "username", username)
		return Result{Message: userMessage(err)}
	}

	token, err := f.sessions.Issue(ctx, u.ID)
	if err != nil {
		f.logFailure(ctx, "login", err, "username", username)
		return Result{Message: userMessage(err)}
	}

	if err := f.presence.MarkOnline(ctx, u.ID); err != nil {
		f.logFailure(ctx, "login", err, "username", username)
		if _, rerr := f.sessions.RevokeForUser(ctx, username); rerr != nil {
			f.logger.Warn(ctx, "failed to revoke session after login failure", "username", username, "error", rerr)
		}
		return Result{Message: userMessage(err)}
	}

	metrics.Logins.WithLabelValues("success").Inc()
	f.logger.Info(ctx, "Logged in", "username", username)
	return Result{Success: true, Message: msgLoggedIn, UserID: u.ID, SessionToken: token}
}

// Logout always succeeds from the caller's point of view; store failures
// are only logged.
func (f *Facade) Logout(ctx context.Context, username string) (res Result) {
	username = normalizeUsername(username)
	defer recoverTo(ctx, f.logger, "logout", &res, Result{Success: true, Message: loggedOutMessage(username)})

	if err := f.presence.MarkOffline(ctx, username); err != nil {
		f.logFailure(ctx, "logout", err, "username", username)
	}

	if n, err := f.sessions.RevokeForUser(ctx, username); err != nil {
		f.logFailure(ctx, "logout", err, "username", username)
	} else if n > 0 {
		f.logger.Info(ctx, "Logged out", "username", username, "sessions", n)
	}

	return Result{Success: true, Message: loggedOutMessage(username)}
}

func (f *Facade) PostMessage(ctx context.Context, username, body string) (res PostResult) {
	defer recoverTo(ctx, f.logger, "send_message", &res, PostResult{Message: msgInternal})

	username = normalizeUsername(username)
	msg, err := f.messages.Append(ctx, username, body)
	if err != nil {
		f.logFailure(ctx, "send_message", err, "username", username)
		return PostResult{Message: userMessage(err)}
	}

	metrics.MessagesPosted.Inc()
	f.logger.Debug(ctx, "Message appended", "id", msg.ID, "username", msg.UserName)
	return PostResult{Success: true, Message: msgPosted, Stored: msg}
}

// Fetch returns messages newer than lastID and the online roster together.
func (f *Facade) Fetch(ctx context.Context, lastID int64) (res FetchResult) {
	empty := FetchResult{Message: msgInternal, Messages: []models.Message{}, OnlineUsers: []string{}}
	defer recoverTo(ctx, f.logger, "fetch", &res, empty)

	msgs, err := f.messages.ReadSince(ctx, lastID)
	if err != nil {
		f.logFailure(ctx, "fetch", err)
		empty.Message = userMessage(err)
		return empty
	}

	online, err := f.presence.Online(ctx)
	if err != nil {
		f.logFailure(ctx, "fetch", err)
		empty.Message = userMessage(err)
		return empty
	}

	return FetchResult{Success: true, Message: msgFetched, Messages: msgs, OnlineUsers: online}
}

// GetMessages returns an empty list when the log cannot be read.
func (f *Facade) GetMessages(ctx context.Context, lastID int64) (res []models.Message) {
	defer recoverTo(ctx, f.logger, "get_messages", &res, []models.Message{})

	msgs, err := f.messages.ReadSince(ctx, lastID)
	if err != nil {
		f.logFailure(ctx, "get_messages", err)
		return []models.Message{}
	}
	return msgs
}

// GetOnlineUsers returns an empty list when the roster cannot be read.
func (f *Facade) GetOnlineUsers(ctx context.Context) (res []string) {
	defer recoverTo(ctx, f.logger, "get_online_users", &res, []string{})

	names, err := f.presence.Online(ctx)
	if err != nil {
		f.logFailure(ctx, "get_online_users", err)
		return []string{}
	}
	return names
}

// GetTotalMessages returns 0 when the log cannot be read.
func (f *Facade) GetTotalMessages(ctx context.Context) (res int64) {
	defer recoverTo(ctx, f.logger, "get_total_messages", &res, 0)

	n, err := f.messages.Count(ctx)
	if err != nil {
		f.logFailure(ctx, "get_total_messages", err)
		return 0
	}
	return n
}

// IsSessionActive reports whether token belongs to a live session.
func (f *Facade) IsSessionActive(ctx context.Context, token string) (active bool) {
	defer recoverTo(ctx, f.logger, "session_active", &active, false)

	ok, err := f.sessions.IsActive(ctx, token)
	if err != nil {
		f.logFailure(ctx, "session_active", err)
		return false
	}
	return ok
}

// logFailure logs expected rejections at info and everything else at error.
func (f *Facade) logFailure(ctx context.Context, op string, err error, args ...any) {
	args = append([]any{"op", op, "error", err.Error()}, args...)
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrAuth),
		errors.Is(err, common.ErrConflict), errors.Is(err, common.ErrNotFound):
		f.logger.Info(ctx, "request rejected", args...)
	default:
		if errors.Is(err, common.ErrStoreUnavailable) {
			metrics.StoreFailures.WithLabelValues(op).Inc()
		}
		f.logger.Error(ctx, "request failed", args...)
	}
}
