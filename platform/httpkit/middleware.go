// Package httpkit holds the gin middleware and response helpers shared by
// every HTTP module.
package httpkit

import (
	"time"

	"geolocation_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Gin context keys.
const (
	ContextRequestIDKey = "requestID"
	ContextSubjectKey   = "subject"
)

var securityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Content-Security-Policy": "default-src 'self'",
	"Permissions-Policy":      "geolocation=(), microphone=(), camera=()",
}

// RequestLogger writes one line per request once the handler chain finishes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		reqLog := log.WithContext(c.Request.Context())
		method, path, status, ip := c.Request.Method, c.Request.URL.Path, c.Writer.Status(), c.ClientIP()
		if last := c.Errors.Last(); last != nil {
			reqLog.HTTPError(method, path, status, last, ip)
			return
		}
		reqLog.HTTPRequest(method, path, status, float64(time.Since(started).Milliseconds()), ip)
	}
}

// SecurityHeaders sets a locked-down default policy. The rendered map route
// overrides the CSP and frame policy for its own responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, value := range securityHeaders {
			c.Header(name, value)
		}
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
