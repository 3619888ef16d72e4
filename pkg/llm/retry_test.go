package llm

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

var fastRetry = llmtypes.RetryConfig{Attempts: 3, InitialDelay: 1, MaxDelay: 5, BackoffType: "fixed"}

func failingGenerator(failures int32, err error) (llmtypes.Generator, *int32) {
	var calls int32
	return llmtypes.GeneratorFunc(func(context.Context, string, string) (string, error) {
		n := atomic.AddInt32(&calls, 1)
		if n <= failures {
			return "", err
		}
		return "ok", nil
	}), &calls
}

func TestRetryGeneratorRecovers(t *testing.T) {
	next, calls := failingGenerator(2, statusError("Gemini", 503, errors.New("unavailable")))

	got, err := NewRetryGenerator(next, fastRetry).Generate(context.Background(), "m", "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.EqualValues(t, 3, atomic.LoadInt32(calls))
}

func TestRetryGeneratorGivesUp(t *testing.T) {
	next, calls := failingGenerator(10, statusError("Gemini", 500, errors.New("boom")))

	_, err := NewRetryGenerator(next, fastRetry).Generate(context.Background(), "m", "p")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.EqualValues(t, 3, atomic.LoadInt32(calls))
}

func TestRetryGeneratorDoesNotRetryAuthFailures(t *testing.T) {
	next, calls := failingGenerator(10, statusError("Gemini", 401, errors.New("bad key")))

	_, err := NewRetryGenerator(next, fastRetry).Generate(context.Background(), "m", "p")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestRetryGeneratorDefaults(t *testing.T) {
	r := NewRetryGenerator(NewMockGenerator(), llmtypes.RetryConfig{})
	assert.Equal(t, llmtypes.DefaultRetryConfig, r.config)
}
