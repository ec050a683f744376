// Package chat implements the conversation flow: session resolution,
// history windowing, context-personalized completion and persistence.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/steamates/steamates/plugin/steam"
	"github.com/steamates/steamates/server/ai"
	svcerrors "github.com/steamates/steamates/server/internal/errors"
	"github.com/steamates/steamates/server/internal/observability"
	"github.com/steamates/steamates/store"
)

const (
	// historyWindow bounds the turns sent to the completion call.
	historyWindow = 20
	// anonymousOwner marks sessions without an authenticated owner.
	anonymousOwner = "anonymous"
)

// Completer performs a chat completion. *ai.Provider implements it.
type Completer interface {
	Chat(ctx context.Context, messages []ai.Message) (string, error)
}

// ContextProvider serves the cached Steam aggregate for an identity.
// *steam.ContextCache implements it.
type ContextProvider interface {
	Get(ctx context.Context, steamID string) *steam.AggregatedContext
}

// Service is the chat session manager.
type Service struct {
	store     *store.Store
	completer Completer
	contexts  ContextProvider
	logger    *slog.Logger
}

// NewService creates a chat service. completer may be nil when no
// completion credential is configured; SendMessage then fails with
// SERVICE_UNAVAILABLE.
func NewService(st *store.Store, completer Completer, contexts ContextProvider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     st,
		completer: completer,
		contexts:  contexts,
		logger:    logger,
	}
}

// SendMessageRequest carries one inbound chat turn. SessionUID, UserID and
// SteamID are all optional.
type SendMessageRequest struct {
	Message    string
	SessionUID string
	UserID     string
	SteamID    string
}

// SendMessageResponse is the assistant reply plus the session it belongs
// to.
type SendMessageResponse struct {
	Response   string
	SessionUID string
}

// SendMessage appends the user turn, invokes the completion with the
// personalized system prompt and the windowed history, and persists the
// exchange. Nothing is persisted unless the completion succeeds, so a
// failed call leaves the stored record unchanged.
func (s *Service) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, svcerrors.InvalidArgument("message is required")
	}
	if s.completer == nil {
		return nil, svcerrors.ServiceUnavailable("Groq API key not configured").
			WithHint("set STEAMATES_GROQ_API_KEY — get one at https://console.groq.com/keys")
	}

	rc := observability.NewRequestContext(s.logger)

	session, history, err := s.resolveSession(ctx, req)
	if err != nil {
		return nil, err
	}
	isNew := session.ID == 0

	// Window over the persisted turns plus the new user turn.
	turns := append(history, &store.ChatMessage{
		Role:    store.ChatMessageRoleUser,
		Content: req.Message,
	})
	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}

	contextKey := req.SteamID
	if contextKey == "" {
		contextKey = req.UserID
	}
	aggregate := s.contexts.Get(ctx, contextKey)
	systemPrompt := steam.SystemPromptBase + steam.BuildContextPrompt(aggregate)

	messages := make([]ai.Message, 0, len(turns)+1)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: systemPrompt})
	for _, turn := range turns {
		messages = append(messages, ai.Message{Role: normalizeRole(turn.Role), Content: turn.Content})
	}

	// Once issued, the completion runs to completion or failure; a client
	// disconnect does not abort the remote call or the persistence that
	// follows it.
	callCtx := context.WithoutCancel(ctx)
	reply, err := s.completer.Chat(callCtx, messages)
	if err != nil {
		rc.Logger.Error("chat completion failed",
			observability.LogFieldSessionUID, session.UID,
			observability.LogFieldErrorCode, string(svcerrors.CodeOf(err)),
			observability.LogFieldDuration, rc.DurationMs(),
		)
		return nil, err
	}
	if reply == "" {
		reply = "Lo siento, no pude generar una respuesta."
	}

	if err := s.persistExchange(callCtx, session, isNew, req.Message, reply); err != nil {
		return nil, err
	}

	rc.Logger.Info("chat message handled",
		observability.LogFieldSessionUID, session.UID,
		observability.LogFieldMessageLen, len(req.Message),
		observability.LogFieldDuration, rc.DurationMs(),
	)
	return &SendMessageResponse{
		Response:   reply,
		SessionUID: session.UID,
	}, nil
}

// resolveSession loads the session named by the request, or prepares a new
// unpersisted one when the UID is absent or does not resolve. The returned
// history is empty for new sessions.
func (s *Service) resolveSession(ctx context.Context, req *SendMessageRequest) (*store.ChatSession, []*store.ChatMessage, error) {
	if req.SessionUID != "" {
		session, err := s.store.GetChatSessionByUID(ctx, req.SessionUID)
		if err != nil {
			return nil, nil, svcerrors.Internal("failed to load chat session").WithCause(err)
		}
		if session != nil {
			history, err := s.store.ListChatMessages(ctx, &store.FindChatMessage{SessionID: &session.ID})
			if err != nil {
				return nil, nil, svcerrors.Internal("failed to load chat history").WithCause(err)
			}
			return session, history, nil
		}
	}

	owner := req.UserID
	if owner == "" {
		owner = req.SteamID
	}
	if owner == "" {
		owner = anonymousOwner
	}
	return &store.ChatSession{
		UID:     shortuuid.New(),
		OwnerID: owner,
	}, nil, nil
}

// persistExchange writes the session (if new) and the user/assistant turn
// pair. Called only after a successful completion.
func (s *Service) persistExchange(ctx context.Context, session *store.ChatSession, isNew bool, message, reply string) error {
	if isNew {
		if _, err := s.store.CreateChatSession(ctx, session); err != nil {
			return svcerrors.Internal("failed to create chat session").WithCause(err)
		}
	}
	if _, err := s.store.CreateChatMessage(ctx, &store.ChatMessage{
		SessionID: session.ID,
		Role:      store.ChatMessageRoleUser,
		Content:   message,
	}); err != nil {
		return svcerrors.Internal("failed to save user message").WithCause(err)
	}
	if _, err := s.store.CreateChatMessage(ctx, &store.ChatMessage{
		SessionID: session.ID,
		Role:      store.ChatMessageRoleAssistant,
		Content:   reply,
	}); err != nil {
		return svcerrors.Internal("failed to save assistant message").WithCause(err)
	}
	if !isNew {
		now := time.Now().Unix()
		if err := s.store.UpdateChatSession(ctx, &store.UpdateChatSession{ID: session.ID, UpdatedTs: &now}); err != nil {
			return svcerrors.Internal("failed to update chat session").WithCause(err)
		}
	}
	return nil
}

// History returns the ordered turns of a session.
func (s *Service) History(ctx context.Context, sessionUID string) ([]*store.ChatMessage, error) {
	session, err := s.store.GetChatSessionByUID(ctx, sessionUID)
	if err != nil {
		return nil, svcerrors.Internal("failed to load chat session").WithCause(err)
	}
	if session == nil {
		return nil, svcerrors.NotFound("session not found")
	}
	messages, err := s.store.ListChatMessages(ctx, &store.FindChatMessage{SessionID: &session.ID})
	if err != nil {
		return nil, svcerrors.Internal("failed to load chat history").WithCause(err)
	}
	return messages, nil
}

// normalizeRole maps a stored role onto the completion call's role tags.
// Roles outside the two canonical ones (legacy records) collapse to the
// assistant role.
func normalizeRole(role store.ChatMessageRole) string {
	switch role {
	case store.ChatMessageRoleUser:
		return ai.RoleUser
	case store.ChatMessageRoleAssistant:
		return ai.RoleAssistant
	default:
		return ai.RoleAssistant
	}
}
