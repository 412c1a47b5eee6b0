package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appLogger "github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/logger"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/transport/http/middleware"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// ErrorCase maps a usecase error kind to an HTTP status code and client message.
type ErrorCase struct {
	Kind    usecase.ErrorKind
	Status  int
	Message string
}

var defaultErrorCases = []ErrorCase{
	{Kind: usecase.KindUnauthorized, Status: http.StatusUnauthorized, Message: "authentication required"},
	{Kind: usecase.KindCrossTenantAccess, Status: http.StatusForbidden, Message: "access to this resource is not allowed"},
	{Kind: usecase.KindInsufficientRole, Status: http.StatusForbidden, Message: "your role does not permit this operation"},
	{Kind: usecase.KindNotFound, Status: http.StatusNotFound, Message: "resource not found"},
	{Kind: usecase.KindConflict, Status: http.StatusConflict, Message: "resource conflicts with existing data"},
	{Kind: usecase.KindInvalidInput, Status: http.StatusBadRequest, Message: "invalid request"},
}

// Responder writes usecase failures as JSON error payloads.
type Responder struct {
	cases  map[usecase.ErrorKind]ErrorCase
	logger *zap.Logger
}

// NewResponder builds a responder. With concealCrossTenant set, cross-tenant
// denials are indistinguishable from missing resources.
func NewResponder(logger *zap.Logger, concealCrossTenant bool) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}

	cases := make(map[usecase.ErrorKind]ErrorCase, len(defaultErrorCases))
	for _, cs := range defaultErrorCases {
		cases[cs.Kind] = cs
	}
	if concealCrossTenant {
		cases[usecase.KindCrossTenantAccess] = ErrorCase{
			Kind:    usecase.KindCrossTenantAccess,
			Status:  cases[usecase.KindNotFound].Status,
			Message: cases[usecase.KindNotFound].Message,
		}
	}

	return &Responder{cases: cases, logger: logger}
}

// Error maps err to its status code. Untyped errors become 500 without detail.
func (r *Responder) Error(c *gin.Context, err error) {
	var opErr *usecase.Error
	if !errors.As(err, &opErr) {
		_ = c.Error(err)
		appLogger.With(c.Request.Context(), r.logger).Error("operation failed",
			zap.String("trace_id", middleware.GetTraceID(c)),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error"))
		return
	}

	cs, ok := r.cases[opErr.Kind]
	if !ok {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error"))
		return
	}

	c.Set(middleware.ErrorKindKey, string(opErr.Kind))

	resp := NewErrorResponse(c, cs.Message)
	switch opErr.Kind {
	case usecase.KindInvalidInput:
		resp.Field = opErr.Field
		if opErr.Message != "" {
			resp.Error = opErr.Message
		}
	case usecase.KindConflict:
		resp.Field = opErr.Field
	}

	c.JSON(cs.Status, resp)
}

// BadRequest reports a request that could not be decoded.
func (r *Responder) BadRequest(c *gin.Context, field, message string) {
	resp := NewErrorResponse(c, message)
	resp.Field = field
	c.Set(middleware.ErrorKindKey, string(usecase.KindInvalidInput))
	c.JSON(http.StatusBadRequest, resp)
}
