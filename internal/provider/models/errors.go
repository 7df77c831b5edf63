package models

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common provider failures.
var (
	// Configuration errors
	ErrAPIKeyMissing = errors.New("GEMINI_API_KEY is not configured")

	// Request errors
	ErrTextTooLarge = errors.New("text exceeds the configured size limit")

	// Response errors
	ErrEmptyResponse = errors.New("No response received from Gemini API")
)

// ErrorCode represents a provider error code.
type ErrorCode string

const (
	ErrorCodeConfiguration  ErrorCode = "configuration"
	ErrorCodeTooLarge       ErrorCode = "text_too_large"
	ErrorCodeEmptyResponse  ErrorCode = "empty_response"
	ErrorCodeContentBlocked ErrorCode = "content_blocked"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeInvalidModel   ErrorCode = "invalid_model"
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodeNetwork        ErrorCode = "network_error"
	ErrorCodeTimeout        ErrorCode = "timeout"
	ErrorCodeCanceled       ErrorCode = "canceled"
	ErrorCodeUnavailable    ErrorCode = "service_unavailable"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
	ErrorCodeUnknown        ErrorCode = "unknown"
)

// ProviderError wraps errors with additional context.
type ProviderError struct {
	Code       ErrorCode
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// BlockedError is an empty response that Gemini cut off for a stated reason.
// Its message is that of ErrEmptyResponse so callers see the same text.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return ErrEmptyResponse.Error()
}

func (e *BlockedError) Unwrap() error {
	return ErrEmptyResponse
}

// Classify returns the error code describing err. It is used for logs and
// metrics only; messages shown to callers come from the original error.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var providerErr *ProviderError
	var blockedErr *BlockedError
	switch {
	case errors.As(err, &blockedErr):
		return ErrorCodeContentBlocked
	case errors.Is(err, ErrAPIKeyMissing):
		return ErrorCodeConfiguration
	case errors.Is(err, ErrTextTooLarge):
		return ErrorCodeTooLarge
	case errors.Is(err, ErrEmptyResponse):
		return ErrorCodeEmptyResponse
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorCodeTimeout
	case errors.Is(err, context.Canceled):
		return ErrorCodeCanceled
	case errors.As(err, &providerErr):
		return providerErr.Code
	default:
		return ErrorCodeUnknown
	}
}
