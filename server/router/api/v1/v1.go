// Package v1 exposes the JSON HTTP API.
package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/steamates/steamates/internal/profile"
	"github.com/steamates/steamates/plugin/steam"
	"github.com/steamates/steamates/server/ai"
	"github.com/steamates/steamates/server/auth"
	svcerrors "github.com/steamates/steamates/server/internal/errors"
	"github.com/steamates/steamates/server/middleware"
	"github.com/steamates/steamates/server/service/chat"
	"github.com/steamates/steamates/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store

	SteamClient  *steam.Client
	ContextCache *steam.ContextCache
	ChatService  *chat.Service
	Verifier     *auth.Verifier
}

func NewAPIV1Service(profile *profile.Profile, st *store.Store) *APIV1Service {
	steamClient := steam.NewClient(profile.SteamAPIKey)
	contextCache := steam.NewContextCache(steamClient)

	var completer chat.Completer
	if provider := ai.NewProvider(&ai.Config{
		BaseURL:   profile.GroqBaseURL,
		APIKey:    profile.GroqAPIKey,
		ChatModel: profile.GroqModel,
	}); provider != nil {
		completer = provider
	}

	return &APIV1Service{
		Profile:      profile,
		Store:        st,
		SteamClient:  steamClient,
		ContextCache: contextCache,
		ChatService:  chat.NewService(st, completer, contextCache, nil),
		Verifier:     auth.NewVerifier(),
	}
}

// RegisterRoutes attaches all API routes to the echo server.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	apiGroup := e.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.GET("/steam", s.SteamLogin)
	authGroup.GET("/steam/callback", s.SteamCallback)
	authGroup.GET("/me", s.Me)
	authGroup.POST("/logout", s.Logout)

	chatLimiter := middleware.NewRateLimiter(time.Second/10, 20)
	chatGroup := apiGroup.Group("/chat", chatLimiter.Middleware())
	chatGroup.POST("/message", s.SendMessage)
	chatGroup.GET("/history/:sessionId", s.GetHistory)

	steamGroup := apiGroup.Group("/steam")
	steamGroup.GET("/profile/:steamId", s.GetSteamProfile)
	steamGroup.GET("/games/:steamId", s.GetSteamGames)
	steamGroup.GET("/friends/:steamId", s.GetSteamFriends)
	steamGroup.GET("/recent/:steamId", s.GetSteamRecent)
}

// errorResponse maps a service error onto its HTTP status and JSON body.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch svcerrors.CodeOf(err) {
	case svcerrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case svcerrors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case svcerrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case svcerrors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	case svcerrors.ErrCodeServiceUnavailable:
		status = http.StatusServiceUnavailable
	}

	body := map[string]string{"error": userMessage(err)}
	if hint := svcerrors.HintOf(err); hint != "" {
		body["hint"] = hint
	}
	return c.JSON(status, body)
}

func userMessage(err error) string {
	var se *svcerrors.ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return "internal server error"
}
