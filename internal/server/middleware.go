package server

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/san-kum/moodcanvas/internal/logger"
)

const sentryFlushTimeout = 2 * time.Second

// RequestTracking tags each request with an ID and logs its outcome.
func RequestTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.WithContext(c)
		fields["duration"] = time.Since(start)
		fields["status_code"] = status
		fields["client_ip"] = c.ClientIP()
		if mood := c.Query("mood"); mood != "" {
			fields["mood"] = mood
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed with server error", nil, fields)
		case status >= http.StatusBadRequest:
			logger.Warn("Request failed with client error", fields)
		default:
			logger.Info("Request completed", fields)
		}
	}
}

// SentryMiddleware binds a per-request hub. It is only installed when a
// Sentry client is configured, and must sit outside RecoverWithSentry: panics
// are recovered and reported once, by the inner handler, through this hub.
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         false,
		WaitForDelivery: false,
		Timeout:         sentryFlushTimeout,
	})
}

// RecoverWithSentry turns a panic into a 500 and reports it to the request hub
// when one is bound.
func RecoverWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetRequest(c.Request)
					scope.SetTag("request_id", c.GetString("request_id"))
					hub.RecoverWithContext(c.Request.Context(), err)
				})
			}
			logger.Error("Panic recovered", nil, logger.Fields{
				"request_id": c.GetString("request_id"),
				"error":      err,
				"path":       c.Request.URL.Path,
			})
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "internal server error",
				"request_id": c.GetString("request_id"),
			})
		}()
		c.Next()
	}
}
