package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken(t *testing.T) {
	const secret = "test-secret"

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := SignToken(secret, "76561198000000001", 42)
		require.NoError(t, err)

		claims, err := VerifyToken(secret, token)
		require.NoError(t, err)
		assert.Equal(t, "76561198000000001", claims.SteamID)
		assert.Equal(t, int32(42), claims.UserID)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := SignToken(secret, "1", 1)
		require.NoError(t, err)

		_, err = VerifyToken("other-secret", token)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := VerifyToken(secret, "not.a.token")
		assert.Error(t, err)
	})
}
