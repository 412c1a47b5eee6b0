package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSOptions configures cross origin access for browser clients.
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         time.Duration
}

var corsAllowedHeaders = strings.Join([]string{
	"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader, TraceIDHeader,
}, ",")

// CORS adds Cross-Origin Resource Sharing headers. Credentials are only allowed
// for explicitly listed origins since the session cookie rides on them.
func CORS(opts CORSOptions) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(opts.AllowedOrigins))
	allowAll := false
	for _, origin := range opts.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowAll = true
			continue
		}
		if origin != "" {
			origins[origin] = struct{}{}
		}
	}

	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		_, listed := origins[origin]

		switch {
		case listed:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			c.Header("Access-Control-Allow-Headers", corsAllowedHeaders)
			c.Header("Access-Control-Max-Age", strconv.Itoa(int(maxAge.Seconds())))
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
