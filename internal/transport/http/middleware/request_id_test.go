package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/logger"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{name: "caller id kept", inbound: "trace-42.a_b", keep: true},
		{name: "missing id minted", inbound: ""},
		{name: "control characters replaced", inbound: "abc\r\nforged: 1"},
		{name: "overlong id replaced", inbound: strings.Repeat("a", maxRequestIDLen+1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var fromCtx, fromGin string

			router := gin.New()
			router.Use(RequestID())
			router.GET("/", func(c *gin.Context) {
				fromCtx, _ = c.Request.Context().Value(logger.RequestIDKey{}).(string)
				fromGin = c.GetString(requestIDKey)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.inbound != "" {
				req.Header.Set(requestIDHeader, tc.inbound)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			echoed := rec.Header().Get(requestIDHeader)
			if echoed == "" || echoed != fromCtx || echoed != fromGin {
				t.Fatalf("inconsistent ids: header=%q ctx=%q gin=%q", echoed, fromCtx, fromGin)
			}
			if tc.keep {
				if echoed != tc.inbound {
					t.Fatalf("expected caller id %q, got %q", tc.inbound, echoed)
				}
				return
			}
			if _, err := uuid.Parse(echoed); err != nil {
				t.Fatalf("expected minted uuid, got %q", echoed)
			}
		})
	}
}
