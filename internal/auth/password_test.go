package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := DefaultPasswordConfig()

	hash, salt, err := HashPassword("Str0ngPass@", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEmpty(t, salt)

	match, err := VerifyPassword("Str0ngPass@", hash, salt, cfg)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = VerifyPassword("WrongPass1@", hash, salt, cfg)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	cfg := DefaultPasswordConfig()

	hash1, salt1, err := HashPassword("Str0ngPass@", cfg)
	require.NoError(t, err)
	hash2, salt2, err := HashPassword("Str0ngPass@", cfg)
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}
