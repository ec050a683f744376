package v1

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/steamates/steamates/plugin/steam"
	"github.com/steamates/steamates/server/auth"
	svcerrors "github.com/steamates/steamates/server/internal/errors"
	"github.com/steamates/steamates/store"
)

// SteamLogin handles GET /api/auth/steam: redirect to the Steam OpenID
// provider.
func (s *APIV1Service) SteamLogin(c echo.Context) error {
	if s.SteamClient == nil {
		return errorResponse(c, svcerrors.ServiceUnavailable("Steam API key not configured").
			WithHint("set STEAMATES_STEAM_API_KEY — get one at https://steamcommunity.com/dev/apikey"))
	}
	return c.Redirect(http.StatusFound, auth.LoginRedirectURL(s.Profile.PublicURL))
}

// SteamCallback handles GET /api/auth/steam/callback: verify the OpenID
// assertion, upsert the user and redirect back to the client with a session
// cookie.
func (s *APIV1Service) SteamCallback(c echo.Context) error {
	ctx := c.Request().Context()
	loginFailed := s.Profile.ClientURL + "/login?error=auth_failed"

	steamID, err := s.Verifier.Verify(ctx, c.QueryParams())
	if err != nil {
		return c.Redirect(http.StatusFound, loginFailed)
	}

	// Profile details for the upsert; the login stays valid even if this
	// read fails.
	var summary *steam.PlayerSummary
	if s.SteamClient != nil {
		summary, _ = s.SteamClient.GetPlayerSummary(ctx, steamID)
	}
	if summary == nil {
		summary = &steam.PlayerSummary{SteamID: steamID}
	}

	user, err := s.upsertUser(c, steamID, summary)
	if err != nil {
		return c.Redirect(http.StatusFound, loginFailed)
	}

	token, err := auth.SignToken(s.Profile.Secret, steamID, user.ID)
	if err != nil {
		return c.Redirect(http.StatusFound, loginFailed)
	}
	s.setSessionCookie(c, token, time.Now().Add(auth.SessionDuration))

	params := url.Values{}
	params.Set("steamId", user.SteamID)
	params.Set("username", user.Username)
	params.Set("avatar", user.Avatar)
	params.Set("profileUrl", user.ProfileURL)
	return c.Redirect(http.StatusFound, s.Profile.ClientURL+"/login?"+params.Encode())
}

func (s *APIV1Service) upsertUser(c echo.Context, steamID string, summary *steam.PlayerSummary) (*store.User, error) {
	ctx := c.Request().Context()

	user, err := s.Store.GetUserBySteamID(ctx, steamID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return s.Store.CreateUser(ctx, &store.User{
			SteamID:    steamID,
			Username:   summary.PersonaName,
			Avatar:     summary.AvatarFull,
			ProfileURL: summary.ProfileURL,
			RealName:   summary.RealName,
		})
	}

	now := time.Now().Unix()
	update := &store.UpdateUser{ID: user.ID, LastLoginTs: &now}
	if summary.PersonaName != "" {
		update.Username = &summary.PersonaName
	}
	if summary.AvatarFull != "" {
		update.Avatar = &summary.AvatarFull
	}
	if summary.ProfileURL != "" {
		update.ProfileURL = &summary.ProfileURL
	}
	return s.Store.UpdateUser(ctx, update)
}

// Me handles GET /api/auth/me.
func (s *APIV1Service) Me(c echo.Context) error {
	unauthenticated := map[string]any{"authenticated": false, "user": nil}

	cookie, err := c.Cookie(auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusOK, unauthenticated)
	}
	claims, err := auth.VerifyToken(s.Profile.Secret, cookie.Value)
	if err != nil {
		return c.JSON(http.StatusOK, unauthenticated)
	}

	user, err := s.Store.GetUserBySteamID(c.Request().Context(), claims.SteamID)
	if err != nil || user == nil {
		return c.JSON(http.StatusOK, unauthenticated)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":         user.ID,
			"steamId":    user.SteamID,
			"username":   user.Username,
			"avatar":     user.Avatar,
			"profileUrl": user.ProfileURL,
		},
	})
}

// Logout handles POST /api/auth/logout.
func (s *APIV1Service) Logout(c echo.Context) error {
	s.setSessionCookie(c, "", time.Unix(0, 0))
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (s *APIV1Service) setSessionCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   !s.Profile.IsDev(),
		SameSite: http.SameSiteLaxMode,
	})
}
