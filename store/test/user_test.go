package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steamates/steamates/store"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	created, err := ts.CreateUser(ctx, &store.User{
		SteamID:    "76561198000000001",
		Username:   "gabe",
		Avatar:     "https://avatars.steamstatic.com/abc_full.jpg",
		ProfileURL: "https://steamcommunity.com/id/gabe/",
		RealName:   "Gabe N.",
	})
	require.NoError(t, err)
	require.Greater(t, created.ID, int32(0))
	require.NotZero(t, created.CreatedTs)

	t.Run("GetBySteamID", func(t *testing.T) {
		user, err := ts.GetUserBySteamID(ctx, "76561198000000001")
		require.NoError(t, err)
		require.NotNil(t, user)
		require.Equal(t, created.ID, user.ID)
		require.Equal(t, "gabe", user.Username)
	})

	t.Run("GetBySteamIDMissing", func(t *testing.T) {
		user, err := ts.GetUserBySteamID(ctx, "76561198999999999")
		require.NoError(t, err)
		require.Nil(t, user)
	})

	t.Run("UpdateOnLogin", func(t *testing.T) {
		username := "gaben"
		lastLogin := int64(1700000000)
		updated, err := ts.UpdateUser(ctx, &store.UpdateUser{
			ID:          created.ID,
			Username:    &username,
			LastLoginTs: &lastLogin,
		})
		require.NoError(t, err)
		require.Equal(t, "gaben", updated.Username)
		require.Equal(t, lastLogin, updated.LastLoginTs)
		// Untouched fields survive a partial update.
		require.Equal(t, created.Avatar, updated.Avatar)

		// Update refreshes the cached entry.
		user, err := ts.GetUserBySteamID(ctx, "76561198000000001")
		require.NoError(t, err)
		require.Equal(t, "gaben", user.Username)
	})

	t.Run("ListByID", func(t *testing.T) {
		users, err := ts.ListUsers(ctx, &store.FindUser{ID: &created.ID})
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, "76561198000000001", users[0].SteamID)
	})
}
