package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/transport/http/middleware"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// CredentialRevoker invalidates a credential before its expiry.
type CredentialRevoker interface {
	Revoke(ctx context.Context, credential, reason string) error
}

// SessionHandler reports and ends the caller's session.
type SessionHandler struct {
	revoker      CredentialRevoker
	rsp          *Responder
	secureCookie bool
	current      gin.HandlerFunc
}

func NewSessionHandler(resolver usecase.PrincipalResolver, revoker CredentialRevoker, rsp *Responder, secureCookie bool) *SessionHandler {
	whoami := func(_ context.Context, actor domain.Principal, _ struct{}) (SessionResponse, error) {
		return newSessionResponse(actor), nil
	}

	return &SessionHandler{
		revoker:      revoker,
		rsp:          rsp,
		secureCookie: secureCookie,
		current:      queryEndpoint(rsp, usecase.Authenticated(resolver, "session.current", whoami)),
	}
}

func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.current)
	r.DELETE("", h.revoke)
}

func (h *SessionHandler) revoke(c *gin.Context) {
	credential := usecase.CredentialFromContext(c.Request.Context())
	reason := strings.TrimSpace(c.DefaultQuery("reason", "logout"))

	if err := h.revoker.Revoke(c.Request.Context(), credential, reason); err != nil {
		h.rsp.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}
