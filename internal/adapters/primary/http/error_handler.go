package http

import (
	"log/slog"
	"net/http"

	mw "github.com/lorrc/cw-dashboard/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/cw-dashboard/internal/core/errors"
)

// ErrorHandler resolves view-builder failures to an HTTP status and a
// message, and logs them with request context. The dashboard endpoints
// embed the message into their own endpoint-shaped error payloads, so this
// type deliberately does not write responses itself.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Resolve maps an error to the status code and message the caller should
// surface. Upstream failures become 502 so the fault domain is explicit;
// everything else is a generic 500.
func (h *ErrorHandler) Resolve(r *http.Request, err error) (int, string) {
	statusCode := http.StatusInternalServerError
	message := "An unexpected error occurred"

	if ue, ok := apperrors.AsUpstream(err); ok {
		statusCode = http.StatusBadGateway
		message = ue.Error()
	}

	h.logError(r, statusCode, err)
	return statusCode, message
}

// logError logs the error with appropriate context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error) {
	logAttrs := []any{
		"request_id", mw.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", err.Error(),
	}

	switch {
	case statusCode >= 500:
		h.logger.Error("request failed", logAttrs...)
	case statusCode >= 400:
		h.logger.Warn("client error", logAttrs...)
	default:
		h.logger.Info("request error", logAttrs...)
	}
}
