package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("Abcd1234!")
	require.NoError(t, err)
	second, err := HashPassword("Abcd1234!")
	require.NoError(t, err)

	assert.NotEqual(t, "Abcd1234!", first)
	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Abcd1234!")
	require.NoError(t, err)

	ok, err := VerifyPassword("Abcd1234!", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	ok, err := VerifyPassword("Abcd1234!", "not-an-argon2-hash")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_EmptyHash(t *testing.T) {
	t.Parallel()

	// Accounts created through Google sign-in store no password hash; a
	// password login against them must fail cleanly.
	ok, err := VerifyPassword("Abcd1234!", "")
	require.NoError(t, err)
	assert.False(t, ok)
}
