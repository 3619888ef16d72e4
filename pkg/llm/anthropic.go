package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
	"github.com/jingkaihe/genai/pkg/version"
)

// DefaultAnthropicModel is used when neither anthropic.model nor model is set
const DefaultAnthropicModel = string(anthropic.ModelClaude3_7SonnetLatest)

// AnthropicGenerator generates text with the Anthropic Messages API
type AnthropicGenerator struct {
	backend
	client anthropic.Client
}

// NewAnthropicGenerator creates an Anthropic-backed generator. The SDK's own
// retries are disabled; wrap the generator in a RetryGenerator instead.
func NewAnthropicGenerator(cfg llmtypes.Config) (*AnthropicGenerator, error) {
	if strings.TrimSpace(cfg.Anthropic.APIKey) == "" {
		return nil, errors.New("missing Anthropic API key (set ANTHROPIC_API_KEY or anthropic.api_key)")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.Anthropic.APIKey),
		option.WithMaxRetries(0),
		option.WithHeader("User-Agent", version.Get().UserAgent()),
	}
	if cfg.Anthropic.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Anthropic.BaseURL))
	}

	model := cfg.Anthropic.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	return &AnthropicGenerator{
		backend: newBackend(llmtypes.ProviderAnthropic, model, cfg),
		client:  anthropic.NewClient(opts...),
	}, nil
}

// Generate implements llmtypes.Generator
func (g *AnthropicGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	return g.generate(ctx, model, prompt, g.createMessage)
}

func (g *AnthropicGenerator) createMessage(ctx context.Context, model, prompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", statusError("Anthropic", apiErr.StatusCode, err)
		}
		return "", errors.Wrap(err, "Anthropic request failed")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.Wrap(ErrEmptyResponse, "Anthropic")
	}
	return b.String(), nil
}
