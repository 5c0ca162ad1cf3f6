package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit reports a throttled request (HTTP 429).
type ErrRateLimit struct {
	Provider string

	// RetryAfter is the server's hint, zero when it sent none.
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %s: %v", e.provider(), e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s: rate limited: %v", e.provider(), e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

func (e *ErrRateLimit) provider() string { return providerLabel(e.Provider) }

// ErrAuth reports credentials the provider refused (HTTP 401 or 403).
type ErrAuth struct {
	Provider string
	Err      error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("%s: credentials rejected: %v", providerLabel(e.Provider), e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrInvalidResponse reports output that does not match the requested schema.
// Content holds what the model actually returned.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable reports a provider that could not serve the request:
// network failure, server error, timeout or an open circuit breaker.
type ErrProviderUnavailable struct {
	Provider string

	// Status is the HTTP status when the provider answered, else zero.
	Status int
	Err    error
}

func (e *ErrProviderUnavailable) Error() string {
	msg := providerLabel(e.Provider) + " unavailable"
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded reports structured output cut off by the token limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

func providerLabel(name string) string {
	if name == "" {
		return "LLM provider"
	}
	return name
}

// classifyStatus maps an HTTP status from a provider API to a typed error.
// Anything that is not throttling or an auth failure counts as unavailable.
func classifyStatus(provider string, status int, err error) error {
	switch status {
	case http.StatusTooManyRequests:
		return &ErrRateLimit{Provider: provider, Err: err}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ErrAuth{Provider: provider, Err: err}
	default:
		return &ErrProviderUnavailable{Provider: provider, Status: status, Err: err}
	}
}

// parseRetryAfter reads a Retry-After header given in seconds. HTTP dates
// and garbage yield zero.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
