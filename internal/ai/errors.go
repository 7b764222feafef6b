package ai

import (
	"errors"
	"fmt"
	"time"
)

// ConfigurationError means the classifier cannot be called at all, usually
// because no credential is configured. It is never retryable.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

// ErrMissingAPIKey is returned at call time when no API key is configured.
var ErrMissingAPIKey = &ConfigurationError{Msg: "API Key not found in environment variables."}

// ErrEmptyResponse is wrapped in an UpstreamError when the model answered
// without any text payload.
var ErrEmptyResponse = errors.New("no response text received from model")

// UpstreamError wraps a failed call to the classification service.
type UpstreamError struct {
	Backend string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s classification failed: %v", e.Backend, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ParseError means the service answered but the payload was not a valid
// AnalysisResult.
type ParseError struct {
	Err error
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed classification response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type RateLimitError struct {
	RetryAfter time.Duration
}

func (r RateLimitError) Error() string {
	if r.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", r.RetryAfter)
	}
	return "rate limited"
}

// IsConfigurationError reports whether err (or anything it wraps) is a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
