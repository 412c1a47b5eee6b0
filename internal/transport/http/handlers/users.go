package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// UserHandler exposes tenant user administration.
type UserHandler struct {
	invite     gin.HandlerFunc
	list       gin.HandlerFunc
	get        gin.HandlerFunc
	changeRole gin.HandlerFunc
	deactivate gin.HandlerFunc
}

func NewUserHandler(resolver usecase.PrincipalResolver, users *usecase.UserService, rsp *Responder) *UserHandler {
	return &UserHandler{
		invite: jsonEndpoint(rsp, http.StatusCreated, usecase.Authenticated(resolver, usecase.PolicyUserInvite.Name, users.Invite), nil),
		list:   listEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyUserList.Name, users.List), nil),
		get:    idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyUserRead.Name, users.Get)),
		changeRole: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyUserChangeRole.Name, users.ChangeRole),
			bindID(func(in *usecase.ChangeUserRoleInput, id string) { in.UserID = id })),
		deactivate: deleteEndpoint(rsp, usecase.AuthenticatedExec(resolver, usecase.PolicyUserDeactivate.Name, users.Deactivate)),
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.invite)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.PUT("/:id/role", h.changeRole)
	r.DELETE("/:id", h.deactivate)
}
