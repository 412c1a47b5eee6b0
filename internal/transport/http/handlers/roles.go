package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// RoleHandler exposes tenant role administration.
type RoleHandler struct {
	create gin.HandlerFunc
	list   gin.HandlerFunc
	get    gin.HandlerFunc
	update gin.HandlerFunc
	delete gin.HandlerFunc
	grant  gin.HandlerFunc
	revoke gin.HandlerFunc
}

func NewRoleHandler(resolver usecase.PrincipalResolver, roles *usecase.RoleService, rsp *Responder) *RoleHandler {
	bindRole := bindID(func(in *usecase.RolePermissionsInput, id string) { in.RoleID = id })
	listRoles := func(ctx context.Context, actor domain.Principal, _ struct{}) ([]domain.Role, error) {
		return roles.List(ctx, actor)
	}

	return &RoleHandler{
		create: jsonEndpoint(rsp, http.StatusCreated, usecase.Authenticated(resolver, usecase.PolicyRoleCreate.Name, roles.Create), nil),
		list:   listEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyRoleList.Name, listRoles), nil),
		get:    idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyRoleRead.Name, roles.Get)),
		update: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyRoleUpdate.Name, roles.Update),
			bindID(func(in *usecase.UpdateRoleInput, id string) { in.ID = id })),
		delete: deleteEndpoint(rsp, usecase.AuthenticatedExec(resolver, usecase.PolicyRoleDelete.Name, roles.Delete)),
		grant:  jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyRoleGrant.Name, roles.GrantPermissions), bindRole),
		revoke: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyRoleRevoke.Name, roles.RevokePermissions), bindRole),
	}
}

func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.DELETE("/:id", h.delete)
	r.POST("/:id/permissions/grant", h.grant)
	r.POST("/:id/permissions/revoke", h.revoke)
}
