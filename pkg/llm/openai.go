package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

// DefaultOpenAIModel is used when neither openai.model nor model is set
const DefaultOpenAIModel = openai.GPT4o

// OpenAIGenerator generates text with an OpenAI-compatible chat completions API
type OpenAIGenerator struct {
	backend
	client *openai.Client
}

// NewOpenAIGenerator creates an OpenAI-backed generator
func NewOpenAIGenerator(cfg llmtypes.Config) (*OpenAIGenerator, error) {
	if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
		return nil, errors.New("missing OpenAI API key (set OPENAI_API_KEY or openai.api_key)")
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.OpenAI.BaseURL, "/")
	}

	model := cfg.OpenAI.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIGenerator{
		backend: newBackend(llmtypes.ProviderOpenAI, model, cfg),
		client:  openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Generate implements llmtypes.Generator
func (g *OpenAIGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	return g.generate(ctx, model, prompt, g.createChatCompletion)
}

func (g *OpenAIGenerator) createChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", statusError("OpenAI", apiErr.HTTPStatusCode, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode >= http.StatusBadRequest {
			return "", statusError("OpenAI", reqErr.HTTPStatusCode, err)
		}
		return "", errors.Wrap(err, "OpenAI request failed")
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.Wrap(ErrEmptyResponse, "OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
