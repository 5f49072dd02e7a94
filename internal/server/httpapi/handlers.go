package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/server/chat"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Email           string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type logoutRequest struct {
	Username string `json:"username"`
}

type sendMessageRequest struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type resultResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	UserID       string `json:"user_id,omitempty"`
	SessionToken string `json:"session_token,omitempty"`
}

type sendMessageResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	ID        int64      `json:"id,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type messageResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type fetchResponse struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Messages    []messageResponse `json:"messages"`
	OnlineUsers []string          `json:"online_users"`
}

func badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{
		"error": "invalid request body",
	})
}

func toResultResponse(r chat.Result) resultResponse {
	return resultResponse{Success: r.Success, Message: r.Message, UserID: r.UserID, SessionToken: r.SessionToken}
}

func toMessageResponses(msgs []models.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResponse{ID: m.ID, Username: m.UserName, Message: m.Body, Timestamp: m.Timestamp.UTC()})
	}
	return out
}

// lastIDParam reads ?last_id=; anything unparsable means 0.
func lastIDParam(c echo.Context) int64 {
	id, err := strconv.ParseInt(c.QueryParam("last_id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// register handles POST /api/register
func (s *HTTPServer) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	res := s.chat.Register(c.Request().Context(), chat.RegisterRequest{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Email:           req.Email,
	})
	return c.JSON(http.StatusOK, toResultResponse(res))
}

// login handles POST /api/login
func (s *HTTPServer) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	res := s.chat.Login(c.Request().Context(), req.Username, req.Password)
	return c.JSON(http.StatusOK, toResultResponse(res))
}

// logout handles POST /api/logout
func (s *HTTPServer) logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	res := s.chat.Logout(c.Request().Context(), req.Username)
	return c.JSON(http.StatusOK, toResultResponse(res))
}

// sendMessage handles POST /api/messages
func (s *HTTPServer) sendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	res := s.chat.PostMessage(c.Request().Context(), req.Username, req.Message)

	resp := sendMessageResponse{Success: res.Success, Message: res.Message}
	if res.Stored != nil {
		ts := res.Stored.Timestamp.UTC()
		resp.ID = res.Stored.ID
		resp.Timestamp = &ts
	}
	return c.JSON(http.StatusOK, resp)
}

// getMessages handles GET /api/messages?last_id=
func (s *HTTPServer) getMessages(c echo.Context) error {
	msgs := s.chat.GetMessages(c.Request().Context(), lastIDParam(c))
	return c.JSON(http.StatusOK, toMessageResponses(msgs))
}

// getTotalMessages handles GET /api/messages/count
func (s *HTTPServer) getTotalMessages(c echo.Context) error {
	return c.JSON(http.StatusOK, s.chat.GetTotalMessages(c.Request().Context()))
}

// getOnlineUsers handles GET /api/online
func (s *HTTPServer) getOnlineUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.chat.GetOnlineUsers(c.Request().Context()))
}

// fetch handles GET /api/fetch?last_id=
func (s *HTTPServer) fetch(c echo.Context) error {
	res := s.chat.Fetch(c.Request().Context(), lastIDParam(c))
	return c.JSON(http.StatusOK, fetchResponse{
		Success:     res.Success,
		Message:     res.Message,
		Messages:    toMessageResponses(res.Messages),
		OnlineUsers: res.OnlineUsers,
	})
}

// healthz handles GET /healthz
func (s *HTTPServer) healthz(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "store unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
