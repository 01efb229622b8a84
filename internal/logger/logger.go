package logger

import (
	"context"
	"fmt"
	"log"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// sentryTags are the fields promoted to Sentry tags for filtering.
var sentryTags = []string{"request_id", "kind", "error_kind", "operation"}

// WithContext extracts request context for logging
func WithContext(c *gin.Context) Fields {
	fields := Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}

	if userID, exists := c.Get("user_id"); exists {
		fields["user_id"] = userID
	}

	return fields
}

func Info(msg string, fields Fields) {
	write("INFO", msg, fields)
	breadcrumb("info", sentry.LevelInfo, msg, fields)
}

func Warn(msg string, fields Fields) {
	write("WARN", msg, fields)
	breadcrumb("warning", sentry.LevelWarning, msg, fields)
}

func Debug(msg string, fields Fields) {
	write("DEBUG", msg, fields)
	breadcrumb("debug", sentry.LevelDebug, msg, fields)
}

// Error logs the error and captures it in Sentry with fields as context
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %v", msg, err, formatFields(fields))

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetContext("fields", sentry.Context(maps.Clone(fields)))
		for _, tag := range sentryTags {
			if v, ok := fields[tag].(string); ok && v != "" {
				scope.SetTag(tag, v)
			}
		}
		hub.CaptureException(err)
	})
}

// LogGenerationRequest logs a finished generation and tracks it as a Sentry span
func LogGenerationRequest(ctx context.Context, kind string, seed uint64, duration time.Duration, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}

	fields["kind"] = kind
	fields["seed"] = seed
	fields["duration_ms"] = duration.Milliseconds()

	Info("Generation request completed", fields)

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		span := sentry.StartSpan(ctx, "harmony.generate")
		span.Description = kind
		span.SetData("seed", seed)
		span.SetData("duration_ms", duration.Milliseconds())
		span.Finish()
	}
}

func write(level, msg string, fields Fields) {
	if len(fields) == 0 {
		log.Printf("[%s] %s", level, msg)
		return
	}
	log.Printf("[%s] %s %s", level, msg, formatFields(fields))
}

func breadcrumb(typ string, level sentry.Level, msg string, fields Fields) {
	if sentry.CurrentHub().Client() == nil {
		return
	}
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:     typ,
		Category: "log",
		Message:  msg,
		Data:     maps.Clone(fields),
		Level:    level,
	})
}

// formatFields renders fields as {k=v, ...} in key order
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(formatValue(fields[k]))
	}
	b.WriteString("}")
	return b.String()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", val)
	case string:
		return val
	case error:
		return val.Error()
	default:
		return fmt.Sprintf("%v", val)
	}
}
