package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned when a backend rejects the configured credentials
	ErrUnauthorized = errors.New("api key invalid or unauthorized")
	// ErrEmptyResponse is returned when a backend answers without any text
	ErrEmptyResponse = errors.New("response has no candidates/parts/text")
)

// StatusError is a non-success HTTP answer from a generation backend
type StatusError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned non-success status %d: %v", e.Provider, e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// statusError classifies an HTTP status from provider. 401 and 403 are
// reported as ErrUnauthorized.
func statusError(provider string, code int, cause error) error {
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return errors.Wrapf(ErrUnauthorized, "%s (status %d): %v", provider, code, cause)
	}
	return &StatusError{Provider: provider, StatusCode: code, Err: cause}
}

var retryablePatterns = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"temporary failure",
	"service unavailable",
	"rate limit",
	"too many requests",
}

// IsRetryable reports whether a generation error is worth retrying.
// Authorization failures and cancellations never are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrEmptyResponse) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.StatusCode
		return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return errors.Is(err, context.DeadlineExceeded)
}
