package v1

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/steamates/steamates/plugin/steam"
	svcerrors "github.com/steamates/steamates/server/internal/errors"
)

const steamMediaBase = "https://media.steampowered.com/steamcommunity/public/images/apps"

// friendsBatchLimit caps the batched friend-summary read on the proxy
// route. Larger than the chat context cap; the Steam batch endpoint allows
// up to 100 ids.
const friendsBatchLimit = 100

func (s *APIV1Service) requireSteam(c echo.Context) error {
	if s.SteamClient == nil {
		return errorResponse(c, svcerrors.ServiceUnavailable("Steam API key not configured").
			WithHint("set STEAMATES_STEAM_API_KEY — get one at https://steamcommunity.com/dev/apikey"))
	}
	return nil
}

// GetSteamProfile handles GET /api/steam/profile/:steamId.
func (s *APIV1Service) GetSteamProfile(c echo.Context) error {
	if err := s.requireSteam(c); err != nil {
		return err
	}

	player, err := s.SteamClient.GetPlayerSummary(c.Request().Context(), c.Param("steamId"))
	if err != nil {
		return errorResponse(c, svcerrors.Internal("error fetching Steam profile").WithCause(err))
	}
	if player == nil {
		return errorResponse(c, svcerrors.NotFound("player not found"))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"steamId":       player.SteamID,
		"username":      player.PersonaName,
		"avatar":        player.AvatarFull,
		"profileUrl":    player.ProfileURL,
		"realName":      player.RealName,
		"status":        player.PersonaState,
		"lastLogoff":    player.LastLogoff,
		"gameId":        nullable(player.GameID),
		"gameExtraInfo": nullable(player.GameExtraInfo),
	})
}

// GetSteamGames handles GET /api/steam/games/:steamId.
func (s *APIV1Service) GetSteamGames(c echo.Context) error {
	if err := s.requireSteam(c); err != nil {
		return err
	}

	owned, err := s.SteamClient.GetOwnedGames(c.Request().Context(), c.Param("steamId"))
	if err != nil {
		return errorResponse(c, svcerrors.Internal("error fetching Steam games").WithCause(err))
	}

	games := make([]map[string]any, 0, len(owned.Games))
	sorted := make([]steam.OwnedGame, len(owned.Games))
	copy(sorted, owned.Games)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlaytimeForever > sorted[j].PlaytimeForever
	})
	for _, game := range sorted {
		games = append(games, map[string]any{
			"appId":      game.AppID,
			"name":       game.Name,
			"playtime":   game.PlaytimeForever,
			"lastPlayed": game.RTimeLastPlayed,
			"icon":       fmt.Sprintf("%s/%d/%s.jpg", steamMediaBase, game.AppID, game.ImgIconURL),
			"logo":       fmt.Sprintf("%s/%d/%s.jpg", steamMediaBase, game.AppID, game.ImgLogoURL),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"totalCount": owned.GameCount,
		"games":      games,
	})
}

// GetSteamFriends handles GET /api/steam/friends/:steamId.
func (s *APIV1Service) GetSteamFriends(c echo.Context) error {
	if err := s.requireSteam(c); err != nil {
		return err
	}
	ctx := c.Request().Context()

	friendsList, err := s.SteamClient.GetFriendList(ctx, c.Param("steamId"))
	if err != nil {
		return errorResponse(c, svcerrors.Internal("error fetching Steam friends").WithCause(err))
	}
	if len(friendsList) == 0 {
		return c.JSON(http.StatusOK, map[string]any{"friends": []any{}})
	}
	if len(friendsList) > friendsBatchLimit {
		friendsList = friendsList[:friendsBatchLimit]
	}

	since := make(map[string]int64, len(friendsList))
	ids := make([]string, 0, len(friendsList))
	for _, f := range friendsList {
		since[f.SteamID] = f.FriendSince
		ids = append(ids, f.SteamID)
	}
	profiles, err := s.SteamClient.GetPlayerSummaries(ctx, ids)
	if err != nil {
		return errorResponse(c, svcerrors.Internal("error fetching Steam friends").WithCause(err))
	}

	// Online and in-game friends first, offline last.
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].PersonaState != steam.PersonaOffline && profiles[j].PersonaState == steam.PersonaOffline
	})

	friends := make([]map[string]any, 0, len(profiles))
	for _, p := range profiles {
		friends = append(friends, map[string]any{
			"steamId":     p.SteamID,
			"username":    p.PersonaName,
			"avatar":      p.AvatarFull,
			"status":      p.PersonaState,
			"currentGame": nullable(p.GameExtraInfo),
			"friendSince": since[p.SteamID],
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"friends": friends})
}

// GetSteamRecent handles GET /api/steam/recent/:steamId.
func (s *APIV1Service) GetSteamRecent(c echo.Context) error {
	if err := s.requireSteam(c); err != nil {
		return err
	}

	recent, err := s.SteamClient.GetRecentlyPlayedGames(c.Request().Context(), c.Param("steamId"), 10)
	if err != nil {
		return errorResponse(c, svcerrors.Internal("error fetching recent games").WithCause(err))
	}

	games := make([]map[string]any, 0, len(recent.Games))
	for _, game := range recent.Games {
		games = append(games, map[string]any{
			"appId":           game.AppID,
			"name":            game.Name,
			"playtime2Weeks":  game.Playtime2Weeks,
			"playtimeForever": game.PlaytimeForever,
			"icon":            fmt.Sprintf("%s/%d/%s.jpg", steamMediaBase, game.AppID, game.ImgIconURL),
		})
	}
	// total_count from the envelope, which can exceed the entries returned.
	return c.JSON(http.StatusOK, map[string]any{
		"totalCount": recent.TotalCount,
		"games":      games,
	})
}

// nullable renders an empty string as JSON null, matching the platform's
// optional fields.
func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
