package evaluation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/abhisek/engpractice/internal/llm"
)

// Messages returned to callers for classified provider failures.
const (
	MsgInvalidAPIKey   = "Invalid API key. Please check your configuration."
	MsgRateLimited     = "Rate limit exceeded. Please try again later."
	MsgGenericFailure  = "Failed to evaluate. Please try again."
	MsgNoResponse      = "No response from AI model"
	MsgInvalidFormat   = "Invalid response format from AI model"
	MsgMissingScore    = "Invalid evaluation response: missing score"
	MsgNotConfigured   = "LLM API key is not configured. Please set OPENAI_API_KEY in your environment variables."
	MsgInvalidEvalType = "invalid evaluation type"
)

// ValidationError reports a missing or invalid request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConfigurationError reports that no provider credential is configured.
// The message names the selected provider's key variable when known.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	var missing *llm.MissingKeyError
	if errors.As(e.Err, &missing) && missing.EnvVar != "" {
		return fmt.Sprintf("LLM API key is not configured. Please set %s in your environment variables.", missing.EnvVar)
	}
	return MsgNotConfigured
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ProviderError wraps a failed model call with the HTTP status it maps to.
type ProviderError struct {
	Status  int
	Message string
	Err     error
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() error { return e.Err }

// FormatError reports model output that is empty, not JSON, or lacks a
// numeric score.
type FormatError struct {
	Message string
	Err     error
}

func (e *FormatError) Error() string { return e.Message }

func (e *FormatError) Unwrap() error { return e.Err }

// classifyProviderError maps a provider failure to a ProviderError. Typed
// llm errors are consulted first; the message substrings "API key" and
// "rate limit" are the fallback for untyped errors.
func classifyProviderError(err error) *ProviderError {
	var auth *llm.ErrAuthentication
	if errors.As(err, &auth) {
		return &ProviderError{Status: http.StatusUnauthorized, Message: MsgInvalidAPIKey, Err: err}
	}
	var rl *llm.ErrRateLimit
	if errors.As(err, &rl) {
		return &ProviderError{Status: http.StatusTooManyRequests, Message: MsgRateLimited, Err: err}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key"):
		return &ProviderError{Status: http.StatusUnauthorized, Message: MsgInvalidAPIKey, Err: err}
	case strings.Contains(msg, "rate limit"):
		return &ProviderError{Status: http.StatusTooManyRequests, Message: MsgRateLimited, Err: err}
	}

	if msg == "" {
		msg = MsgGenericFailure
	}
	return &ProviderError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// StatusCode returns the HTTP status an evaluation error maps to.
func StatusCode(err error) int {
	var (
		validation *ValidationError
		provider   *ProviderError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &provider):
		return provider.Status
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message sent to callers for err.
func PublicMessage(err error) string {
	if err == nil || err.Error() == "" {
		return MsgGenericFailure
	}
	return err.Error()
}
