package llm

import (
	"context"
	"fmt"
	"strings"

	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

// Canned answers returned by MockGenerator
const (
	MockSelectorCommitResponse  = `{"skill":"auto-commit-msg","confidence":0.92,"reason":"commit related request"}`
	MockSelectorDefaultResponse = `{"skill":"auto-commit-msg","confidence":0.51,"reason":"default"}`
	MockExecutorResponse        = "chore(core): update generated changes"
)

// MockGenerator is a deterministic offline generator. It backs the
// "executor" model for every provider and is the fallback when no live
// backend can be built.
type MockGenerator struct{}

// NewMockGenerator returns a MockGenerator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate implements llmtypes.Generator
func (m *MockGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	switch model {
	case llmtypes.ModelSelector:
		if strings.Contains(strings.ToLower(prompt), "commit") {
			return MockSelectorCommitResponse, nil
		}
		return MockSelectorDefaultResponse, nil
	case llmtypes.ModelExecutor:
		return MockExecutorResponse, nil
	default:
		return fmt.Sprintf("[mock:%s] %s", model, prompt), nil
	}
}
