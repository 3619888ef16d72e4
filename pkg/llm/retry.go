package llm

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/genai/pkg/logger"
	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

// RetryGenerator retries transient failures of the wrapped generator with
// the configured backoff. Errors for which IsRetryable is false are
// returned after the first attempt.
type RetryGenerator struct {
	next   llmtypes.Generator
	config llmtypes.RetryConfig
}

// NewRetryGenerator wraps next. A config with no attempts uses
// llmtypes.DefaultRetryConfig.
func NewRetryGenerator(next llmtypes.Generator, config llmtypes.RetryConfig) *RetryGenerator {
	if config.Attempts <= 0 {
		config = llmtypes.DefaultRetryConfig
	}
	return &RetryGenerator{next: next, config: config}
}

// Generate implements llmtypes.Generator
func (r *RetryGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	var resp string

	delayType := retry.BackOffDelay
	if r.config.BackoffType == "fixed" {
		delayType = retry.FixedDelay
	}

	err := retry.Do(
		func() error {
			var err error
			resp, err = r.next.Generate(ctx, model, prompt)
			return err
		},
		retry.RetryIf(IsRetryable),
		retry.Attempts(uint(r.config.Attempts)),
		retry.Delay(time.Duration(r.config.InitialDelay)*time.Millisecond),
		retry.MaxDelay(time.Duration(r.config.MaxDelay)*time.Millisecond),
		retry.DelayType(delayType),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).
				WithField("model", model).
				WithField("attempt", n+1).
				WithField("max_attempts", r.config.Attempts).
				Warn("retrying generation request")
		}),
	)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return resp, nil
}
