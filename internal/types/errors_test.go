package types

import (
	"errors"
	"fmt"
	"testing"
)

// TestAppErrorImplementsError verifies that *AppError satisfies the error interface.
func TestAppErrorImplementsError(t *testing.T) {
	var _ error = (*AppError)(nil)
}

// TestAppErrorErrorFormat verifies the Error() method produces "code: message".
func TestAppErrorErrorFormat(t *testing.T) {
	appErr := &AppError{
		Code:    ErrCodeNotFoundSentence,
		Message: "no sentences found for today",
	}

	expected := "not_found_sentence: no sentences found for today"
	if appErr.Error() != expected {
		t.Errorf("Error() = %q, want %q", appErr.Error(), expected)
	}
}

// TestAppErrorErrorFormatWithCause verifies the cause is appended to the message.
func TestAppErrorErrorFormatWithCause(t *testing.T) {
	appErr := NewAppError(ErrCodeUpstreamStore, "query failed", errors.New("connection reset"))

	expected := "upstream_store_unavailable: query failed: connection reset"
	if appErr.Error() != expected {
		t.Errorf("Error() = %q, want %q", appErr.Error(), expected)
	}
}

// TestAppErrorUnwrap verifies the error chain support via Unwrap.
func TestAppErrorUnwrap(t *testing.T) {
	underlying := errors.New("AccessDeniedException")
	appErr := NewAppError(ErrCodeUpstreamModel, "invoke failed", underlying)

	if !errors.Is(appErr, underlying) {
		t.Errorf("errors.Is should reach the underlying error")
	}
	if appErr.Unwrap() != underlying {
		t.Errorf("Unwrap() = %v, want %v", appErr.Unwrap(), underlying)
	}
}

// TestAppErrorUnwrapNil verifies Unwrap returns nil when no underlying error exists.
func TestAppErrorUnwrapNil(t *testing.T) {
	appErr := NewAppError(ErrCodeNotFoundSentence, "missing", nil)

	if appErr.Unwrap() != nil {
		t.Errorf("Unwrap() should return nil when Err is nil, got %v", appErr.Unwrap())
	}
}

func TestAppErrorWithDetails(t *testing.T) {
	original := &AppError{
		Code:    ErrCodeNotFoundSentence,
		Message: "missing",
		Details: map[string]any{"table": "sentences"},
	}

	updated := original.WithDetails(map[string]any{"date": "2026-10-19"})

	if len(original.Details) != 1 {
		t.Errorf("original details mutated: %v", original.Details)
	}
	if updated.Details["table"] != "sentences" || updated.Details["date"] != "2026-10-19" {
		t.Errorf("merged details = %v", updated.Details)
	}
	if updated.Code != original.Code {
		t.Errorf("Code = %q, want %q", updated.Code, original.Code)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ErrCodeInternalUnexpected},
		{"app error", NewAppError(ErrCodeUpstreamStore, "x", nil), ErrCodeUpstreamStore},
		{"wrapped app error", fmt.Errorf("fetch: %w", NewAppError(ErrCodeNotFoundSentence, "x", nil)), ErrCodeNotFoundSentence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("wrapped: %w", NewAppError(ErrCodeNotFoundSentence, "x", nil))) {
		t.Error("expected wrapped not-found error to be detected")
	}
	if IsNotFound(NewAppError(ErrCodeUpstreamStore, "x", nil)) {
		t.Error("upstream error must not be reported as not found")
	}
	if IsNotFound(nil) {
		t.Error("nil must not be reported as not found")
	}
}

func TestErrorCodeIsUpstream(t *testing.T) {
	if !ErrCodeUpstreamModel.IsUpstream() || !ErrCodeUpstreamStore.IsUpstream() {
		t.Error("upstream codes should report IsUpstream")
	}
	if ErrCodeInternalMalformedResponse.IsUpstream() || ErrCodeNotFoundSentence.IsUpstream() {
		t.Error("non-upstream codes should not report IsUpstream")
	}
}
