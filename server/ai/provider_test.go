package ai

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	svcerrors "github.com/steamates/steamates/server/internal/errors"
)

func TestNewProvider(t *testing.T) {
	t.Run("NoAPIKey", func(t *testing.T) {
		assert.Nil(t, NewProvider(&Config{}))
		assert.Nil(t, NewProvider(nil))
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		p := NewProvider(&Config{APIKey: "gsk_test"})
		assert.NotNil(t, p)
		assert.Equal(t, "llama-3.3-70b-versatile", p.config.ChatModel)
		assert.Equal(t, 1024, p.config.MaxTokens)
		assert.InDelta(t, 0.7, p.config.Temperature, 0.001)
		assert.InDelta(t, 0.9, p.config.TopP, 0.001)
	})
}

func TestClassifyError(t *testing.T) {
	t.Run("Unauthorized", func(t *testing.T) {
		err := classifyError(&openai.APIError{HTTPStatusCode: http.StatusUnauthorized})
		assert.Equal(t, svcerrors.ErrCodeUnauthorized, svcerrors.CodeOf(err))
	})

	t.Run("RateLimited", func(t *testing.T) {
		err := classifyError(&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests})
		assert.Equal(t, svcerrors.ErrCodeRateLimitExceeded, svcerrors.CodeOf(err))
	})

	t.Run("OtherAPIError", func(t *testing.T) {
		err := classifyError(&openai.APIError{HTTPStatusCode: http.StatusBadGateway})
		assert.Equal(t, svcerrors.ErrCodeInternal, svcerrors.CodeOf(err))
	})

	t.Run("TransportError", func(t *testing.T) {
		err := classifyError(errors.New("connection refused"))
		assert.Equal(t, svcerrors.ErrCodeInternal, svcerrors.CodeOf(err))
	})
}
