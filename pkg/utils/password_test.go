package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() { PasswordCost = bcrypt.MinCost }

func TestHashPassword_SaltedPerCall(t *testing.T) {
	a, err := HashPassword("secret")
	require.NoError(t, err)
	b, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "secret")
}

func TestCheckPassword(t *testing.T) {
	h, err := HashPassword("secret")
	require.NoError(t, err)

	assert.True(t, CheckPassword("secret", h))
	assert.False(t, CheckPassword("Secret", h))
	assert.False(t, CheckPassword("", h))
	assert.False(t, CheckPassword("secret", "not-a-digest"))
}

func TestHashPassword_TooLong(t *testing.T) {
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}
	_, err := HashPassword(string(long))
	assert.Error(t, err)
}
