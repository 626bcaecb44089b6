package httpkit

import (
	"context"

	"geolocation_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is echoed back on every response.
const HeaderRequestID = "X-Request-ID"

// RequestID assigns each request an identifier, reusing a caller-supplied one
// when present, and stores it on both the gin and request contexts.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ContextRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the request identifier set by RequestID, if any.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextRequestIDKey)
}

// GetSubject returns the authenticated token subject, or "" for anonymous calls.
func GetSubject(c *gin.Context) string {
	return c.GetString(ContextSubjectKey)
}
