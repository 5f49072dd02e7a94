// Package cryptox holds the password verifier used by the credential store.
//
// A verifier is argon2id(password, salt). Only the salt and the verifier are
// persisted; the plaintext password never leaves the request that carried it.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/chatroom/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of a freshly generated salt.
	SaltSize = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns SaltSize random bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// MakeVerifier derives the one-way verifier for password under salt.
func MakeVerifier(password string, salt []byte) []byte {
	p := []byte(password)
	defer common.WipeByteArray(p)
	return argon2.IDKey(p, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// CheckVerifier reports whether password matches the stored verifier.
// The comparison runs in constant time.
func CheckVerifier(password string, salt, verifier []byte) bool {
	candidate := MakeVerifier(password, salt)
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}
