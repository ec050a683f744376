package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	svcerrors "github.com/steamates/steamates/server/internal/errors"
	"github.com/steamates/steamates/server/service/chat"
)

type sendMessageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	SteamID   string `json:"steamId"`
}

type sendMessageResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

type historyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type historyResponse struct {
	Messages  []historyMessage `json:"messages"`
	SessionID string           `json:"sessionId"`
}

// SendMessage handles POST /api/chat/message.
func (s *APIV1Service) SendMessage(c echo.Context) error {
	req := &sendMessageRequest{}
	if err := c.Bind(req); err != nil {
		return errorResponse(c, svcerrors.InvalidArgument("invalid request body").WithCause(err))
	}

	resp, err := s.ChatService.SendMessage(c.Request().Context(), &chat.SendMessageRequest{
		Message:    req.Message,
		SessionUID: req.SessionID,
		UserID:     req.UserID,
		SteamID:    req.SteamID,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, &sendMessageResponse{
		Response:  resp.Response,
		SessionID: resp.SessionUID,
	})
}

// GetHistory handles GET /api/chat/history/:sessionId.
func (s *APIV1Service) GetHistory(c echo.Context) error {
	sessionID := c.Param("sessionId")
	messages, err := s.ChatService.History(c.Request().Context(), sessionID)
	if err != nil {
		return errorResponse(c, err)
	}

	resp := &historyResponse{
		Messages:  make([]historyMessage, 0, len(messages)),
		SessionID: sessionID,
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, historyMessage{
			Role:    strings.ToLower(string(m.Role)),
			Content: m.Content,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
