package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	require.Len(t, key1, 32)
	assert.True(t, bytes.Equal(key1, key2), "same inputs must give the same key")
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveKey(password, []byte("salt-1"))
	key2 := DeriveKey(password, []byte("salt-2"))

	assert.False(t, bytes.Equal(key1, key2), "different salts must give different keys")
}

func TestMakeVerifier_IsSHA256Length(t *testing.T) {
	v := MakeVerifier([]byte("key"))
	assert.Len(t, v, 32)
	assert.Equal(t, v, MakeVerifier([]byte("key")))
}

func TestCheckPassword(t *testing.T) {
	salt := NewSalt()
	require.Len(t, salt, SaltSize)

	verifier := MakeVerifier(DeriveKey([]byte("hunter22"), salt))

	assert.True(t, CheckPassword([]byte("hunter22"), salt, verifier))
	assert.False(t, CheckPassword([]byte("hunter23"), salt, verifier))
	assert.False(t, CheckPassword([]byte("hunter22"), NewSalt(), verifier))
}
