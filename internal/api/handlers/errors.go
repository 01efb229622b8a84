package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/magda-harmony/internal/logger"
	"github.com/Conceptual-Machines/magda-harmony/internal/metrics"
	"github.com/Conceptual-Machines/magda-harmony/internal/models"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

var sentryMetrics = metrics.NewSentryMetrics()

// statusForError maps an error kind to its HTTP status
func statusForError(err error) int {
	switch {
	case errors.Is(err, theory.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, theory.ErrMusicTheory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorKind(err error) string {
	if errors.Is(err, services.ErrHistoryDisabled) {
		return "history_disabled"
	}
	return theory.Kind(err)
}

// respondError writes the error body and logs it. Caller mistakes are
// warnings, everything else is an error captured by Sentry.
func respondError(c *gin.Context, operation string, err error, cw *metrics.Client) {
	status := statusForError(err)
	kind := errorKind(err)
	c.Set("error_kind", kind)

	fields := logger.WithContext(c)
	fields["operation"] = operation
	fields["kind"] = kind

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, fields)
	} else {
		fields["error"] = err.Error()
		logger.Warn("Request rejected", fields)
	}

	if kind != "history_disabled" {
		sentryMetrics.RecordTheoryFailure(c.Request.Context(), operation, kind)
		cw.RecordTheoryFailure(operation, kind)
	}

	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error:     err.Error(),
		Kind:      kind,
		RequestID: c.GetString("request_id"),
	})
}

// bindError reports a request body that did not decode or validate
func bindError(c *gin.Context, operation string, err error, cw *metrics.Client) {
	respondError(c, operation, fmt.Errorf("%w: %v", theory.ErrInvalidInput, err), cw)
}
