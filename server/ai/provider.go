// Package ai wraps the OpenAI-compatible completion endpoint used for chat
// responses.
package ai

import (
	"context"
	"net/http"

	"github.com/sashabaranov/go-openai"

	svcerrors "github.com/steamates/steamates/server/internal/errors"
)

// Config holds the completion provider configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	ChatModel   string
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// DefaultConfig returns the default configuration, targeting Groq's
// OpenAI-compatible endpoint.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://api.groq.com/openai/v1",
		ChatModel:   "llama-3.3-70b-versatile",
		Temperature: 0.7,
		MaxTokens:   1024,
		TopP:        0.9,
	}
}

// Role tags accepted by the completion endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// Provider performs chat completions.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a completion provider. Returns nil when no API key is
// configured; callers treat a nil provider as chat-disabled.
func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "llama-3.3-70b-versatile"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.9
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// Chat performs a single chat completion. No retries: every failure is
// surfaced once as a typed error.
func (p *Provider) Chat(ctx context.Context, messages []Message) (string, error) {
	llmMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		llmMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.ChatModel,
		Messages:    llmMessages,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
		TopP:        p.config.TopP,
	})
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", svcerrors.Internal("empty chat response")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError maps completion API errors onto the service taxonomy.
// Unauthorized and rate-limited keep their distinct status semantics; all
// other failures collapse to a generic internal error.
func classifyError(err error) error {
	if apiErr, ok := err.(*openai.APIError); ok {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return svcerrors.Unauthorized("invalid Groq API key").WithCause(err)
		case http.StatusTooManyRequests:
			return svcerrors.RateLimitExceeded("rate limit exceeded, please wait a moment").WithCause(err)
		}
	}
	return svcerrors.Internal("error processing chat message").WithCause(err)
}
