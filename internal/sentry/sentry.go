package sentry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// ignoredErrors are logged but never sent to Sentry: client disconnects and
// aborted uploads are not server faults.
var ignoredErrors = []string{
	"connection reset by peer",
	"broken pipe",
	"use of closed network connection",
	"http: request body too large",
	"multipart: NextPart: EOF",
}

var enabled bool

// Init configures the Sentry client. An empty DSN leaves reporting disabled
// and every Capture call degrades to a local log line.
func Init(dsn, environment string) error {
	if dsn == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	enabled = true
	return nil
}

// Middleware returns the gin middleware that attaches a hub to each request.
// It is a pass-through when Sentry is disabled.
func Middleware() gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

// Flush waits for buffered events to be delivered.
func Flush(timeout time.Duration) {
	if enabled {
		sentry.Flush(timeout)
	}
}

// shouldIgnore checks if an error should be filtered out from Sentry.
func shouldIgnore(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}

	errStr := err.Error()
	for _, ignored := range ignoredErrors {
		if strings.Contains(errStr, ignored) {
			return true
		}
	}
	return false
}

// CaptureError logs an error locally and reports it to Sentry.
// Use this for errors outside of HTTP request context (startup, background tasks).
func CaptureError(err error, message string) {
	log.Printf("%s: %v", message, err)
	if !enabled || shouldIgnore(err) {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetExtra("message", message)
		sentry.CaptureException(err)
	})
}

// CaptureErrorWithContext logs an error and reports it to Sentry with HTTP request context.
func CaptureErrorWithContext(c *gin.Context, err error, message string) {
	log.Printf("%s: %v", message, err)
	if !enabled || shouldIgnore(err) {
		return
	}
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("message", message)
			if c.Request != nil {
				scope.SetTag("http.method", c.Request.Method)
				scope.SetTag("http.path", c.Request.URL.Path)
				scope.SetExtra("http.remote_ip", c.ClientIP())
				if rid := c.GetString(RequestIDKey); rid != "" {
					scope.SetTag("request_id", rid)
				}
			}
			hub.CaptureException(err)
		})
	} else {
		// Fallback to global capture if no hub in context
		CaptureError(err, message)
	}
}

// CaptureErrorWithContextf logs and reports an error with a formatted message and HTTP context.
func CaptureErrorWithContextf(c *gin.Context, err error, format string, args ...interface{}) {
	CaptureErrorWithContext(c, err, fmt.Sprintf(format, args...))
}

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"
