package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/engpractice/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
// eventRepo may be nil, in which case calls are only logged through log.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	name := cfg.ResolveProvider()
	switch name {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return newOfflineMock(cfg.Mock), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", name, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, name, eventRepo, log)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// newOfflineMock answers every request with the configured response so the
// endpoint can be exercised without credentials.
func newOfflineMock(cfg MockConfig) *MockProvider {
	m := NewMockProvider()
	if cfg.Response != "" {
		m.Fallback = &MockResponse{Content: json.RawMessage(cfg.Response)}
	}
	return m
}
