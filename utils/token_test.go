package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)

	_, err = ParseToken("")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "the-signing-secret")
	token, err := GenerateToken(1)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "a-different-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}
