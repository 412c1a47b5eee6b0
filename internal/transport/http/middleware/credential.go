package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// SessionCookie is the cookie consulted when no Authorization header is sent.
const SessionCookie = "session"

// Credential captures the raw bearer credential of the request and places it on
// the request context for the authenticated operation wrapper. It never rejects
// a request: resolution and the unauthorized decision happen in the usecase layer.
func Credential() gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := ExtractCredential(c)
		if credential != "" {
			GetRequestContext(c).HasCredential = true
			c.Request = c.Request.WithContext(usecase.WithCredential(c.Request.Context(), credential))
		}
		c.Next()
	}
}

// ExtractCredential reads a bearer token from the Authorization header, falling
// back to the session cookie.
func ExtractCredential(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// CredentialIdentifier scopes rate limits to the presented credential. The raw
// token is hashed so it never reaches the rate limit store.
func CredentialIdentifier() IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		credential := usecase.CredentialFromContext(c.Request.Context())
		if credential == "" {
			return "", false
		}
		sum := sha256.Sum256([]byte(credential))
		return hex.EncodeToString(sum[:16]), true
	}
}
