package llm

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jingkaihe/genai/pkg/logger"
	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

// ResolveProvider decides which backend cfg asks for. An explicit provider
// wins; otherwise Gemini is used when real_llm is set or a Gemini key is
// present, and the mock in every other case.
func ResolveProvider(cfg llmtypes.Config) string {
	if cfg.Provider != "" {
		return cfg.Provider
	}
	if cfg.RealLLM || cfg.Google.APIKey != "" {
		return llmtypes.ProviderGoogle
	}
	return llmtypes.ProviderMock
}

// NewGenerator builds the generator for provider without any fallback
func NewGenerator(ctx context.Context, provider string, cfg llmtypes.Config) (llmtypes.Generator, error) {
	switch provider {
	case llmtypes.ProviderMock:
		return NewMockGenerator(), nil
	case llmtypes.ProviderGoogle:
		return NewGoogleGenerator(ctx, cfg)
	case llmtypes.ProviderOpenAI:
		return NewOpenAIGenerator(cfg)
	case llmtypes.ProviderAnthropic:
		return NewAnthropicGenerator(cfg)
	default:
		return nil, errors.Errorf("unknown provider %q", provider)
	}
}

// NewGeneratorFromConfig builds the generator selected by ResolveProvider.
// Live backends are wrapped in a RetryGenerator when retry.attempts is more
// than one. When a live backend cannot be initialized a warning is logged
// and the mock is returned instead. The second result names the provider
// actually in use.
func NewGeneratorFromConfig(ctx context.Context, cfg llmtypes.Config) (llmtypes.Generator, string) {
	log := logger.G(ctx)
	provider := ResolveProvider(cfg)

	generator, err := NewGenerator(ctx, provider, cfg)
	if err != nil {
		log.WithError(err).WithField("provider", provider).Warn("unable to initialize generator, falling back to mock")
		return NewMockGenerator(), llmtypes.ProviderMock
	}

	if provider != llmtypes.ProviderMock && cfg.Retry.Attempts > 1 {
		generator = NewRetryGenerator(generator, cfg.Retry)
	}

	log.WithField("provider", provider).Debug("using generator")
	return generator, provider
}
