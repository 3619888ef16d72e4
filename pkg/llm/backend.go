// Package llm provides the text generation backends behind the
// llmtypes.Generator interface: a deterministic mock plus Gemini, OpenAI,
// and Anthropic clients, and a retrying decorator.
package llm

import (
	"context"
	"time"

	"github.com/jingkaihe/genai/pkg/logger"
	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

// backend holds what every live generator shares: model resolution, the
// per-call timeout, and the offline executor model
type backend struct {
	provider     string
	defaultModel string
	timeout      time.Duration
	maxTokens    int
	offline      llmtypes.Generator
}

func newBackend(provider, defaultModel string, cfg llmtypes.Config) backend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = llmtypes.DefaultTimeout
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = llmtypes.DefaultMaxTokens
	}
	if cfg.Model != "" {
		defaultModel = cfg.Model
	}
	return backend{
		provider:     provider,
		defaultModel: defaultModel,
		timeout:      timeout,
		maxTokens:    maxTokens,
		offline:      NewMockGenerator(),
	}
}

// resolveModel maps the reserved ids onto the backend: an empty id or
// "selector" becomes the configured default model
func (b backend) resolveModel(model string) string {
	if model == "" || model == llmtypes.ModelSelector {
		return b.defaultModel
	}
	return model
}

// generate answers the executor model offline and otherwise calls live with
// the resolved model under the per-call timeout
func (b backend) generate(ctx context.Context, model, prompt string, live func(ctx context.Context, model, prompt string) (string, error)) (string, error) {
	if model == llmtypes.ModelExecutor {
		logger.G(ctx).WithField("provider", b.provider).Debug("executor model is served offline")
		return b.offline.Generate(ctx, model, prompt)
	}

	resolved := b.resolveModel(model)
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	logger.G(ctx).WithField("provider", b.provider).WithField("model", resolved).Debug("sending generation request")
	return live(ctx, resolved, prompt)
}
