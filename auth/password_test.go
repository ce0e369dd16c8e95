package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("User@1234")
	require.NoError(t, err)
	assert.NotEqual(t, "User@1234", hash)

	assert.NoError(t, CheckPassword(hash, "User@1234"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestPasswordHashIsSalted(t *testing.T) {
	first, err := HashPassword("same")
	require.NoError(t, err)
	second, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
