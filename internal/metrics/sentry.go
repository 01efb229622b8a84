package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	// Create a span for API request tracking using the request context
	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordGenerationDuration records a progression, rhythm, preview or DSL run
func (m *SentryMetrics) RecordGenerationDuration(ctx context.Context, kind string, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "generation.request")
	defer span.Finish()

	span.SetTag("kind", kind)
	span.SetTag("success", fmt.Sprintf("%t", success))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("success", success)

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("Generation Request: %s", kind)
}

// RecordTheoryFailure marks a request the theory engine rejected. Invalid
// input is the caller's fault, anything else is flagged as an error.
func (m *SentryMetrics) RecordTheoryFailure(ctx context.Context, operation, kind string) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "theory.failure")
	defer span.Finish()

	span.SetTag("operation", operation)
	span.SetTag("kind", kind)
	span.SetData("operation", operation)
	span.SetData("kind", kind)

	switch kind {
	case "invalid_input", "invalid_key", "invalid_meter":
		span.Status = sentry.SpanStatusInvalidArgument
	case "music_theory":
		span.Status = sentry.SpanStatusFailedPrecondition
	default:
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("Theory Failure: %s (%s)", operation, kind)
}
