package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeVerifier_Deterministic(t *testing.T) {
	salt := []byte("fixed-salt")

	v1 := MakeVerifier("secret1", salt)
	v2 := MakeVerifier("secret1", salt)

	if !bytes.Equal(v1, v2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	assert.Len(t, v1, argonKeyLen)
}

func TestMakeVerifier_DifferentSalts(t *testing.T) {
	v1 := MakeVerifier("secret1", []byte("salt-1"))
	v2 := MakeVerifier("secret1", []byte("salt-2"))

	if bytes.Equal(v1, v2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestMakeVerifier_NotPlaintext(t *testing.T) {
	v := MakeVerifier("secret1", NewSalt())
	assert.NotContains(t, string(v), "secret1")
}

func TestCheckVerifier(t *testing.T) {
	salt := NewSalt()
	verifier := MakeVerifier("secret1", salt)

	assert.True(t, CheckVerifier("secret1", salt, verifier))
	assert.False(t, CheckVerifier("secret2", salt, verifier))
	assert.False(t, CheckVerifier("secret1", NewSalt(), verifier))
	assert.False(t, CheckVerifier("secret1", salt, nil))
}

func TestNewSalt_LengthAndEntropy(t *testing.T) {
	a := NewSalt()
	b := NewSalt()

	assert.Len(t, a, SaltSize)
	assert.Len(t, b, SaltSize)
	if bytes.Equal(a, b) {
		t.Logf("warning: two salts are identical; extremely unlikely")
	}
}
