package common

const (
	// MinUsernameLength and MaxUsernameLength bound usernames in runes.
	MinUsernameLength = 3
	MaxUsernameLength = 32

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6

	// MaxMessageLength is the longest accepted message body, in runes.
	MaxMessageLength = 500

	// MessagePageSize caps a single incremental read of the message log.
	MessagePageSize = 50

	// SessionTokenBytes is the amount of randomness behind a session token.
	SessionTokenBytes = 32
)
