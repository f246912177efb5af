package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// All components MUST use these constants instead of hardcoded strings.
const (
	// Not Found
	ErrCodeNotFoundSentence ErrorCode = "not_found_sentence"

	// Upstream (transport, auth or throttling from a managed service)
	ErrCodeUpstreamStore ErrorCode = "upstream_store_unavailable"
	ErrCodeUpstreamModel ErrorCode = "upstream_model_unavailable"

	// Internal
	ErrCodeInternalMalformedResponse ErrorCode = "internal_malformed_model_response"
	ErrCodeInternalUnexpected        ErrorCode = "internal_unexpected_error"
)

// IsUpstream reports whether the code describes a failure of a managed
// dependency rather than of this process.
func (c ErrorCode) IsUpstream() bool {
	return strings.HasPrefix(string(c), "upstream_")
}

// AppError is the standard application error type used throughout the module.
// Domain failures are expressed as AppError so the invocation harness can log
// a stable code while errors.Is/errors.As still reach the wrapped SDK error.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error with the provided details merged in.
// This is useful for adding context without mutating the original error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the ErrorCode of the first AppError in err's chain, or
// ErrCodeInternalUnexpected if there is none. A nil error yields "".
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalUnexpected
}

// IsNotFound reports whether err carries ErrCodeNotFoundSentence.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFoundSentence
}
