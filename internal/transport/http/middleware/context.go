package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceIDHeader carries the trace id echoed on every response.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the gin context key holding the trace id.
	TraceIDKey = "trace_id"

	requestContextKey = "request_context"
)

// RequestContext holds request scoped metadata used by handlers and access logs.
type RequestContext struct {
	TraceID       string
	IP            string
	UserAgent     string
	HasCredential bool
}

// EnrichContext assigns a trace id to each request and records request metadata.
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

// GetTraceID returns the trace id assigned by EnrichContext.
func GetTraceID(c *gin.Context) string {
	if id, ok := c.Get(TraceIDKey); ok {
		if traceID, ok := id.(string); ok {
			return traceID
		}
	}
	return ""
}

// GetRequestContext returns the request metadata, never nil.
func GetRequestContext(c *gin.Context) *RequestContext {
	if value, ok := c.Get(requestContextKey); ok {
		if reqCtx, ok := value.(*RequestContext); ok {
			return reqCtx
		}
	}
	return &RequestContext{}
}
