package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
	"github.com/jingkaihe/genai/pkg/version"
)

// GoogleGenerator generates text with the Gemini API
type GoogleGenerator struct {
	backend
	client *genai.Client
}

// NewGoogleGenerator creates a Gemini-backed generator. An API key is
// required; the base URL defaults to the public Gemini endpoint.
func NewGoogleGenerator(ctx context.Context, cfg llmtypes.Config) (*GoogleGenerator, error) {
	if strings.TrimSpace(cfg.Google.APIKey) == "" {
		return nil, errors.New("missing Gemini API key (set GEMINI_API_KEY or google.api_key)")
	}

	model := cfg.Google.Model
	if model == "" {
		model = llmtypes.DefaultGoogleModel
	}
	baseURL := cfg.Google.BaseURL
	if baseURL == "" {
		baseURL = llmtypes.DefaultGoogleURL
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Google.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: strings.TrimRight(baseURL, "/") + "/",
			Headers: http.Header{"User-Agent": []string{version.Get().UserAgent()}},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Google GenAI client")
	}

	return &GoogleGenerator{
		backend: newBackend(llmtypes.ProviderGoogle, model, cfg),
		client:  client,
	}, nil
}

// Generate implements llmtypes.Generator
func (g *GoogleGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	return g.generate(ctx, model, prompt, g.generateContent)
}

func (g *GoogleGenerator) generateContent(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxTokens),
	})
	if err != nil {
		if code, ok := googleStatusCode(err); ok {
			return "", statusError("Gemini", code, err)
		}
		return "", errors.Wrap(err, "Gemini request failed")
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.Wrap(ErrEmptyResponse, "Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", errors.Wrap(ErrEmptyResponse, "Gemini")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", errors.Wrap(ErrEmptyResponse, "Gemini")
	}
	return b.String(), nil
}

func googleStatusCode(err error) (int, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch apiErr := e.(type) {
		case genai.APIError:
			return apiErr.Code, true
		case *genai.APIError:
			return apiErr.Code, true
		}
	}
	return 0, false
}
