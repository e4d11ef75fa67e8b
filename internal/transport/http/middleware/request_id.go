package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a correlation id, honoring one supplied
// by the caller, and echoes it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, id)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), logger.RequestIDKey{}, id))

		c.Next()
	}
}
