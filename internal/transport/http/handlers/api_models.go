package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/transport/http/middleware"
)

// ErrorResponse is the payload of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the request trace id.
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	return ErrorResponse{Error: message, TraceID: middleware.GetTraceID(c)}
}

// ListResponse wraps collection results.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// HealthResponse describes the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the state of each dependency.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SessionResponse describes the principal behind the presented credential.
type SessionResponse struct {
	UserID   string          `json:"user_id"`
	TenantID string          `json:"tenant_id"`
	RoleID   *string         `json:"role_id,omitempty"`
	Role     domain.RoleKind `json:"role"`
}

func newSessionResponse(p domain.Principal) SessionResponse {
	return SessionResponse{UserID: p.UserID, TenantID: p.TenantID, RoleID: p.RoleID, Role: p.Role}
}
