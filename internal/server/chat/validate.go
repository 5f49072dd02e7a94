package chat

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/chatroom/internal/common"
)

// RegisterRequest is the registration form. ConfirmPassword and Email are
// optional; an empty ConfirmPassword is treated as not supplied.
type RegisterRequest struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
}

// normalizeUsername is applied by every operation that takes a username, so
// a name is stored and looked up in the same form.
func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// normalize trims the free-text fields. Passwords are taken verbatim.
func (r RegisterRequest) normalize() RegisterRequest {
	r.Username = normalizeUsername(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	return r
}

func (r RegisterRequest) validate() error {
	if n := utf8.RuneCountInString(r.Username); n < common.MinUsernameLength || n > common.MaxUsernameLength {
		return common.ErrInvalidUsername
	}
	if utf8.RuneCountInString(r.Password) < common.MinPasswordLength {
		return common.ErrInvalidPasswordFormat
	}
	if r.ConfirmPassword != "" && r.ConfirmPassword != r.Password {
		return common.ErrPasswordMismatch
	}
	if r.Email != "" {
		addr, err := mail.ParseAddress(r.Email)
		if err != nil || addr.Address != r.Email {
			return common.ErrInvalidEmail
		}
	}
	return nil
}
