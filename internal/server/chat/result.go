package chat

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"github.com/dmitrijs2005/chatroom/internal/server/models"
)

// Result is the outcome of register, login and logout. UserID and
// SessionToken are set only by a successful login.
type Result struct {
	Success      bool
	Message      string
	UserID       string
	SessionToken string
}

// PostResult carries the stored message on success.
type PostResult struct {
	Success bool
	Message string
	Stored  *models.Message
}

// FetchResult is one polling round trip: new messages plus the roster.
type FetchResult struct {
	Success     bool
	Message     string
	Messages    []models.Message
	OnlineUsers []string
}

const (
	msgRegistered       = "Registration successful"
	msgLoggedIn         = "Login successful"
	msgPosted           = "Message sent"
	msgFetched          = "OK"
	msgStoreUnavailable = "Service temporarily unavailable, please try again"
	msgInternal         = "Internal server error"
)

func loggedOutMessage(username string) string {
	return fmt.Sprintf("User %s logged out", username)
}

// userMessage turns a service error into the text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrDuplicateUser):
		return "Username already exists"
	case errors.Is(err, common.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, common.ErrInvalidPassword):
		return "Invalid password"
	case errors.Is(err, common.ErrInvalidUsername):
		return fmt.Sprintf("Username must be %d-%d characters", common.MinUsernameLength, common.MaxUsernameLength)
	case errors.Is(err, common.ErrInvalidPasswordFormat):
		return fmt.Sprintf("Password must be at least %d characters", common.MinPasswordLength)
	case errors.Is(err, common.ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, common.ErrInvalidEmail):
		return "Invalid email address"
	case errors.Is(err, common.ErrEmptyMessage):
		return "Message cannot be empty"
	case errors.Is(err, common.ErrMessageTooLong):
		return fmt.Sprintf("Message is too long (max %d characters)", common.MaxMessageLength)
	case errors.Is(err, common.ErrAuthorUnknown):
		return "Unknown user"
	case errors.Is(err, common.ErrStoreUnavailable):
		return msgStoreUnavailable
	default:
		return msgInternal
	}
}
