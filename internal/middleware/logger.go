package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the gin context key the request id is stored under.
// Handlers read it when logging internal errors.
const ContextKeyRequestID = "request_id"

// RequestID assigns each request an id, honoring one supplied by the caller,
// and echoes it in the X-Request-ID response header so gateway relays can be
// correlated with pipeline log lines.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger writes one line per request: id, method, path, status, response
// size, and latency. Errors attached to the context by handlers are appended
// so a failed ingestion shows up on the access line too.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start).Round(time.Microsecond)

		requestID := c.GetString(ContextKeyRequestID)
		line := c.Request.Method + " " + c.Request.URL.Path
		if c.Errors.Last() != nil {
			log.Printf("middleware.Logger: [%s] %s %d %dB %s error=%v",
				requestID, line, c.Writer.Status(), c.Writer.Size(), latency, c.Errors.Last().Err)
			return
		}
		log.Printf("middleware.Logger: [%s] %s %d %dB %s",
			requestID, line, c.Writer.Status(), c.Writer.Size(), latency)
	}
}

// Recovery converts panics into the standard error envelope instead of an
// empty 500, so gateway clients always get a parseable body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString(ContextKeyRequestID)
		log.Printf("middleware.Recovery: [%s] panic: %v", requestID, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "an unexpected error occurred",
			},
		})
	})
}
