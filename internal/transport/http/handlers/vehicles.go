package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// VehicleHandler exposes the fleet vehicle endpoints.
type VehicleHandler struct {
	create gin.HandlerFunc
	list   gin.HandlerFunc
	get    gin.HandlerFunc
	update gin.HandlerFunc
	delete gin.HandlerFunc
}

func NewVehicleHandler(resolver usecase.PrincipalResolver, vehicles *usecase.VehicleService, rsp *Responder) *VehicleHandler {
	return &VehicleHandler{
		create: jsonEndpoint(rsp, http.StatusCreated, usecase.Authenticated(resolver, usecase.PolicyVehicleCreate.Name, vehicles.Create), nil),
		list:   listEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyVehicleList.Name, vehicles.List), nil),
		get:    idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyVehicleRead.Name, vehicles.Get)),
		update: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyVehicleUpdate.Name, vehicles.Update),
			bindID(func(in *usecase.UpdateVehicleInput, id string) { in.ID = id })),
		delete: deleteEndpoint(rsp, usecase.AuthenticatedExec(resolver, usecase.PolicyVehicleDelete.Name, vehicles.Delete)),
	}
}

func (h *VehicleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.DELETE("/:id", h.delete)
}
