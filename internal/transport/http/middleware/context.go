package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceIDHeader carries the trace id between services.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the gin context key holding the trace id.
	TraceIDKey = "trace_id"
	// UserIDKey is the gin context key holding the authenticated account id.
	UserIDKey = "user_id"
	// AccountKey is the gin context key holding the authenticated account.
	AccountKey = "account"

	requestContextKey = "request_context"
)

// RequestContext aggregates request-scoped information for logging.
type RequestContext struct {
	TraceID   string
	UserID    string
	IP        string
	UserAgent string
}

// EnrichContext seeds the trace id and request context for downstream
// middleware and handlers. UserID is filled in later by RequireAuth.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Set(requestContextKey, &RequestContext{
			TraceID:   traceID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})

		c.Next()
	}
}

// GetTraceID returns the trace id seeded by EnrichContext, or "".
func GetTraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}

// GetRequestContext returns the request context, never nil.
func GetRequestContext(c *gin.Context) *RequestContext {
	if value, exists := c.Get(requestContextKey); exists {
		if reqCtx, ok := value.(*RequestContext); ok {
			return reqCtx
		}
	}
	return &RequestContext{}
}
