package security_test

import (
	"strings"
	"testing"

	"xandar-lab/internal/auth/adapter/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := security.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, security.VerifyPassword("hunter2hunter2", hash))
	assert.False(t, security.VerifyPassword("wrong-password", hash))
}

func TestHashPassword_UsesCost12(t *testing.T) {
	hash, err := security.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	first, err := security.HashPassword("same-password-123")
	require.NoError(t, err)
	second, err := security.HashPassword("same-password-123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword_RejectsMalformedHash(t *testing.T) {
	assert.False(t, security.VerifyPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, security.VerifyPassword("anything", ""))
}

func TestHashPassword_LongInputRejected(t *testing.T) {
	// bcrypt caps input at 72 bytes; the library errors instead of silently
	// truncating.
	_, err := security.HashPassword(strings.Repeat("x", 100))
	assert.Error(t, err)
}
