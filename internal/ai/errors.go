package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// Common completion errors.
var (
	// ErrEmptyCompletion is returned when the provider responds with no usable content.
	ErrEmptyCompletion = errors.New("provider returned empty completion")

	// ErrNoMessages is returned when a request carries no messages.
	ErrNoMessages = errors.New("request has no messages")

	// ErrRateLimited is returned when the provider rate limits requests.
	ErrRateLimited = errors.New("rate limited by provider")
)

// ProviderError represents a non-2xx response from the completion provider.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps rate-limit responses onto ErrRateLimited so callers can
// use errors.Is without inspecting status codes.
func (e *ProviderError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return nil
}
