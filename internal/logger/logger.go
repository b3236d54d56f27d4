// Package logger writes leveled, structured log lines and mirrors them to
// Sentry when a client is bound.
package logger

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

const flushTimeout = 2 * time.Second

// Fields represents structured log fields
type Fields map[string]interface{}

// Init binds a Sentry client when dsn is set. The returned func flushes
// pending events and is safe to call when Sentry is disabled.
func Init(dsn, environment, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          "moodcanvas@" + release,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            environment != "production",
	})
	if err != nil {
		return func() {}, fmt.Errorf("sentry init: %w", err)
	}
	return func() { sentry.Flush(flushTimeout) }, nil
}

// WithContext extracts request context for logging
func WithContext(c *gin.Context) Fields {
	return Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
}

func Info(msg string, fields Fields) {
	log.Printf("[INFO] %s %s", msg, formatFields(fields))
	breadcrumb("info", sentry.LevelInfo, msg, fields)
}

func Warn(msg string, fields Fields) {
	log.Printf("[WARN] %s %s", msg, formatFields(fields))
	breadcrumb("warning", sentry.LevelWarning, msg, fields)
}

func Debug(msg string, fields Fields) {
	log.Printf("[DEBUG] %s %s", msg, formatFields(fields))
	breadcrumb("debug", sentry.LevelDebug, msg, fields)
}

// Error logs err and reports it to Sentry with fields attached as context.
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %s", msg, err, formatFields(fields))

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range fields {
			scope.SetContext(key, map[string]interface{}{"value": value})
		}
		for _, tag := range []string{"request_id", "mood"} {
			if v, ok := fields[tag].(string); ok {
				scope.SetTag(tag, v)
			}
		}
		if err == nil {
			hub.CaptureMessage(msg)
			return
		}
		hub.CaptureException(err)
	})
}

func breadcrumb(kind string, level sentry.Level, msg string, fields Fields) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     kind,
			Category: "log",
			Message:  msg,
			Data:     map[string]interface{}(fields),
			Level:    level,
		}, nil)
	}
}

// formatFields renders fields as {k=v, ...} with keys sorted.
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
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[k]))
	}
	b.WriteByte('}')
	return b.String()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.2f", val)
	case time.Duration:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
