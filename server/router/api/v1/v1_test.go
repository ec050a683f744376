package v1

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steamates/steamates/plugin/steam"
	svcerrors "github.com/steamates/steamates/server/internal/errors"
	"github.com/steamates/steamates/server/service/chat"
)

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "InvalidArgument",
			err:        svcerrors.InvalidArgument("message is required"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `"error":"message is required"`,
		},
		{
			name:       "Unauthorized",
			err:        svcerrors.Unauthorized("invalid Groq API key"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"error":"invalid Groq API key"`,
		},
		{
			name:       "NotFound",
			err:        svcerrors.NotFound("session not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   `"error":"session not found"`,
		},
		{
			name:       "RateLimited",
			err:        svcerrors.RateLimitExceeded("Groq rate limit exceeded"),
			wantStatus: http.StatusTooManyRequests,
			wantBody:   `"error":"Groq rate limit exceeded"`,
		},
		{
			name:       "ServiceUnavailable",
			err:        svcerrors.ServiceUnavailable("Steam API key not configured").WithHint("set STEAMATES_STEAM_API_KEY"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `"hint":"set STEAMATES_STEAM_API_KEY"`,
		},
		{
			name:       "Internal",
			err:        svcerrors.Internal("error processing chat message"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"error":"error processing chat message"`,
		},
		{
			name:       "UnclassifiedError",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"error":"internal server error"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodGet, "/", "")
			require.NoError(t, errorResponse(c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestSteamRoutesWithoutKey(t *testing.T) {
	service := &APIV1Service{}

	handlers := map[string]echo.HandlerFunc{
		"Profile": service.GetSteamProfile,
		"Games":   service.GetSteamGames,
		"Friends": service.GetSteamFriends,
		"Recent":  service.GetSteamRecent,
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodGet, "/api/steam/x/1", "")
			require.NoError(t, handler(c))
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.Contains(t, rec.Body.String(), "Steam API key not configured")
			assert.Contains(t, rec.Body.String(), "hint")
		})
	}
}

func TestSendMessageHandlerValidation(t *testing.T) {
	service := &APIV1Service{ChatService: chat.NewService(nil, nil, nil, nil)}

	t.Run("MalformedBody", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodPost, "/api/chat/message", "{not json")
		require.NoError(t, service.SendMessage(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodPost, "/api/chat/message", `{"message":"  "}`)
		require.NoError(t, service.SendMessage(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "message is required")
	})
}

func TestSteamProxyResponseShapes(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "GetOwnedGames"):
			fmt.Fprint(w, `{"response":{"game_count":2,"games":[
				{"appid":10,"name":"A","playtime_forever":600,"img_icon_url":"icon10","img_logo_url":"logo10"},
				{"appid":20,"name":"B","playtime_forever":60,"img_icon_url":"icon20","img_logo_url":"logo20"}
			]}}`)
		case strings.Contains(r.URL.Path, "GetRecentlyPlayedGames"):
			fmt.Fprint(w, `{"response":{"total_count":17,"games":[
				{"appid":10,"name":"A","playtime_2weeks":30,"playtime_forever":600,"img_icon_url":"icon10"}
			]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(backend.Close)

	service := &APIV1Service{
		SteamClient: steam.NewClient("test-key", steam.WithBaseURL(backend.URL)),
	}

	t.Run("GamesCarryLogo", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodGet, "/api/steam/games/1", "")
		require.NoError(t, service.GetSteamGames(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"totalCount":2`)
		assert.Contains(t, rec.Body.String(), steamMediaBase+"/10/logo10.jpg")
		assert.Contains(t, rec.Body.String(), steamMediaBase+"/10/icon10.jpg")
	})

	t.Run("RecentTotalCountFromEnvelope", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodGet, "/api/steam/recent/1", "")
		require.NoError(t, service.GetSteamRecent(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		// The envelope count exceeds the single entry returned.
		assert.Contains(t, rec.Body.String(), `"totalCount":17`)
	})
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "Dota 2", nullable("Dota 2"))
}
