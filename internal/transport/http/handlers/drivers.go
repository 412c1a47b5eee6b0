package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// DriverHandler exposes driver endpoints including vehicle pairing.
type DriverHandler struct {
	create   gin.HandlerFunc
	list     gin.HandlerFunc
	get      gin.HandlerFunc
	update   gin.HandlerFunc
	delete   gin.HandlerFunc
	assign   gin.HandlerFunc
	unassign gin.HandlerFunc
}

func NewDriverHandler(resolver usecase.PrincipalResolver, drivers *usecase.DriverService, rsp *Responder) *DriverHandler {
	return &DriverHandler{
		create: jsonEndpoint(rsp, http.StatusCreated, usecase.Authenticated(resolver, usecase.PolicyDriverCreate.Name, drivers.Create), nil),
		list:   listEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyDriverList.Name, drivers.List), nil),
		get:    idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyDriverRead.Name, drivers.Get)),
		update: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyDriverUpdate.Name, drivers.Update),
			bindID(func(in *usecase.UpdateDriverInput, id string) { in.ID = id })),
		delete: deleteEndpoint(rsp, usecase.AuthenticatedExec(resolver, usecase.PolicyDriverDelete.Name, drivers.Delete)),
		assign: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyDriverAssign.Name, drivers.AssignVehicle),
			bindID(func(in *usecase.AssignVehicleInput, id string) { in.DriverID = id })),
		unassign: idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyDriverUnassign.Name, drivers.UnassignVehicle)),
	}
}

func (h *DriverHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.DELETE("/:id", h.delete)
	r.PUT("/:id/vehicle", h.assign)
	r.DELETE("/:id/vehicle", h.unassign)
}
