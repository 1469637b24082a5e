// Package middleware provides HTTP middleware for the analytics API server.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultMaxRequestSize caps request bodies accepted by the API. Usage
// events are small JSON documents, so 1MB leaves generous headroom.
const DefaultMaxRequestSize = 1 * 1024 * 1024

// RequestSizeLimit returns a middleware that limits request body size via
// http.MaxBytesReader, which yields HTTP 413 when the limit is exceeded
// and closes the connection against slow-reading clients.
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
