package llm

import "context"

// Reserved model ids with special meaning to the runtime
const (
	// ModelSelector is the model id used when asking a generator to pick a skill
	ModelSelector = "selector"
	// ModelExecutor is an offline-capable model id that never needs network access
	ModelExecutor = "executor"
)

// Generator is the narrow text-generation capability consumed by the skill
// selector and by llm workflow steps. Implementations fail on network,
// authorization, or decode errors.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface
type GeneratorFunc func(ctx context.Context, model, prompt string) (string, error)

// Generate calls f(ctx, model, prompt)
func (f GeneratorFunc) Generate(ctx context.Context, model, prompt string) (string, error) {
	return f(ctx, model, prompt)
}
