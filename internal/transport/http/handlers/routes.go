package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// RouteHandler exposes delivery route endpoints.
type RouteHandler struct {
	create gin.HandlerFunc
	list   gin.HandlerFunc
	get    gin.HandlerFunc
	update gin.HandlerFunc
	delete gin.HandlerFunc
}

func NewRouteHandler(resolver usecase.PrincipalResolver, routes *usecase.RouteService, rsp *Responder) *RouteHandler {
	return &RouteHandler{
		create: jsonEndpoint(rsp, http.StatusCreated, usecase.Authenticated(resolver, usecase.PolicyRouteCreate.Name, routes.Create), nil),
		list:   listEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyRouteList.Name, routes.List), nil),
		get:    idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyRouteRead.Name, routes.Get)),
		update: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyRouteUpdate.Name, routes.Update),
			bindID(func(in *usecase.UpdateRouteInput, id string) { in.ID = id })),
		delete: deleteEndpoint(rsp, usecase.AuthenticatedExec(resolver, usecase.PolicyRouteDelete.Name, routes.Delete)),
	}
}

func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.DELETE("/:id", h.delete)
}
