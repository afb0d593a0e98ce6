package server

import (
	"fashionhub/internal/sentry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// requestID propagates the caller's request ID or assigns a fresh one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(sentry.RequestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}
