package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// CustomerHandler exposes customer endpoints.
type CustomerHandler struct {
	create gin.HandlerFunc
	list   gin.HandlerFunc
	get    gin.HandlerFunc
	update gin.HandlerFunc
	delete gin.HandlerFunc
}

func NewCustomerHandler(resolver usecase.PrincipalResolver, customers *usecase.CustomerService, rsp *Responder) *CustomerHandler {
	return &CustomerHandler{
		create: jsonEndpoint(rsp, http.StatusCreated, usecase.Authenticated(resolver, usecase.PolicyCustomerCreate.Name, customers.Create), nil),
		list:   listEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyCustomerList.Name, customers.List), nil),
		get:    idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyCustomerRead.Name, customers.Get)),
		update: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyCustomerUpdate.Name, customers.Update),
			bindID(func(in *usecase.UpdateCustomerInput, id string) { in.ID = id })),
		delete: deleteEndpoint(rsp, usecase.AuthenticatedExec(resolver, usecase.PolicyCustomerDelete.Name, customers.Delete)),
	}
}

func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.DELETE("/:id", h.delete)
}
