package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/pymaster/internal/store"
)

// NewProvider builds the provider named in cfg and wraps it so that every
// attempt is recorded in events and the call as a whole is retried:
//
//	caller -> retry -> record -> provider
//
// A nil events repo skips recording.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	var p Provider = base
	if events != nil {
		p = WithRecording(p, cfg.Provider, events, logger)
	}
	return WithRetry(p, cfg.Retry, cfg.Timeout), nil
}

// NewProviderFromEnv resolves configuration from the environment and builds
// the provider. It returns ErrNotConfigured when no provider is available.
func NewProviderFromEnv(ctx context.Context, events store.EventRepo, logger *zap.Logger) (Provider, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, events, logger)
}
