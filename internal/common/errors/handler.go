package errors

import (
	"errors"
	"time"
)

// Notifier surfaces a message to the user (a toast in the web client, a
// highlighted line in the console).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler applies the propagation policy: every failure is logged,
// fetch and mutation failures produce exactly one notification, lookup
// failures are logged only.
type ErrorHandler struct {
	logger   Logger
	notifier Notifier
}

func NewErrorHandler(logger Logger, notifier Notifier) *ErrorHandler {
	return &ErrorHandler{logger: logger, notifier: notifier}
}

// Handle logs err and notifies the user when its category calls for it.
// fallback is the generic text used when the backend sent no message.
func (h *ErrorHandler) Handle(err error, fallback string) {
	if err == nil {
		return
	}
	stdErr := h.normalizeError(err)
	h.logError(stdErr)

	if stdErr.Code == ErrCodeLookupFailed {
		return
	}
	if h.notifier != nil {
		h.notifier.Error(UserMessage(err, fallback))
	}
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &StandardError{
			Code:      ErrCodeBackendError,
			Message:   apiErr.Error(),
			Details:   apiErr.Body,
			Retryable: apiErr.Status >= 500,
			Timestamp: time.Now().UTC(),
			Err:       err,
		}
	}
	return &StandardError{
		Code:      ErrCodeBackendError,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		Err:       err,
	}
}

func (h *ErrorHandler) logError(stdErr *StandardError) {
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	if status := StatusCode(stdErr); status != 0 {
		fields["status"] = status
	}

	if stdErr.Code == ErrCodeLookupFailed {
		h.logger.Warn("enrichment degraded", fields)
		return
	}
	h.logger.Error("operation failed", fields)
}
