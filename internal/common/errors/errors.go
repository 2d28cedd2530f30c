// Package errors provides the error taxonomy shared by the backend client,
// the listing controllers and the console.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeFetchFailed      ErrorCode = "FETCH_FAILED"
	ErrCodeStatsFailed      ErrorCode = "STATS_FAILED"
	ErrCodeMutationFailed   ErrorCode = "MUTATION_FAILED"
	ErrCodeLookupFailed     ErrorCode = "LOOKUP_FAILED"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeAuthFailed       ErrorCode = "AUTH_FAILED"
	ErrCodeBackendError     ErrorCode = "BACKEND_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Err       error                  `json:"-"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Err
}

// APIError is returned by the transport for any non-2xx backend response.
// Message carries the backend's human-readable "message" field when present.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Body    string `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// ==========================
// 2. Error Constructors
// ==========================

func newError(code ErrorCode, message string, err error, retryable bool) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		Err:       err,
	}
}

// NewFetchFailedError wraps a failed list request for a resource.
func NewFetchFailedError(resource string, err error) *StandardError {
	e := newError(ErrCodeFetchFailed, fmt.Sprintf("Failed to load %s", resource), err, true)
	e.Metadata = map[string]interface{}{"resource": resource}
	return e
}

// NewStatsFailedError wraps a failed aggregate request.
func NewStatsFailedError(resource string, err error) *StandardError {
	e := newError(ErrCodeStatsFailed, fmt.Sprintf("Failed to load %s statistics", resource), err, true)
	e.Metadata = map[string]interface{}{"resource": resource}
	return e
}

// NewMutationFailedError wraps a failed create/update/delete/bulk call.
func NewMutationFailedError(resource, action string, err error) *StandardError {
	e := newError(ErrCodeMutationFailed, fmt.Sprintf("Failed to %s %s", action, resource), err, false)
	e.Metadata = map[string]interface{}{"resource": resource, "action": action}
	return e
}

// NewLookupFailedError wraps a failed auxiliary cross-reference query.
func NewLookupFailedError(what string, err error) *StandardError {
	return newError(ErrCodeLookupFailed, fmt.Sprintf("Failed to resolve %s", what), err, true)
}

// NewValidationError reports client-side payload validation problems.
func NewValidationError(problems []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Please fix the highlighted fields: " + strings.Join(problems, "; "),
		Details:   strings.Join(problems, "\n"),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError reports a failed login or expired session.
func NewAuthenticationError(err error) *StandardError {
	return newError(ErrCodeAuthFailed, "Authentication failed", err, false)
}

// ==========================
// 3. Inspection helpers
// ==========================

// UserMessage picks the text shown to the user for err: the backend's own
// message if one came back, a validation summary, or fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) && stdErr.Code == ErrCodeValidationFailed {
		return stdErr.Message
	}
	return fallback
}

// StatusCode returns the backend HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsRetryableErrorCode reports whether a failure with this code may succeed
// if the user repeats the action.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeFetchFailed, ErrCodeStatsFailed, ErrCodeLookupFailed, ErrCodeBackendError:
		return true
	}
	return false
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeFetchFailed, ErrCodeStatsFailed:
		return "QUERY"
	case ErrCodeMutationFailed:
		return "MUTATION"
	case ErrCodeLookupFailed:
		return "ENRICHMENT"
	case ErrCodeValidationFailed:
		return "VALIDATION"
	case ErrCodeAuthFailed:
		return "AUTH"
	default:
		return "UNKNOWN"
	}
}
