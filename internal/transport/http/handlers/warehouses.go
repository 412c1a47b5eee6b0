package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// WarehouseHandler exposes warehouses and the inventory nested under them.
type WarehouseHandler struct {
	create     gin.HandlerFunc
	list       gin.HandlerFunc
	get        gin.HandlerFunc
	update     gin.HandlerFunc
	delete     gin.HandlerFunc
	createItem gin.HandlerFunc
	listItems  gin.HandlerFunc
}

func NewWarehouseHandler(resolver usecase.PrincipalResolver, warehouses *usecase.WarehouseService, inventory *usecase.InventoryService, rsp *Responder) *WarehouseHandler {
	return &WarehouseHandler{
		create: jsonEndpoint(rsp, http.StatusCreated, usecase.Authenticated(resolver, usecase.PolicyWarehouseCreate.Name, warehouses.Create), nil),
		list:   listEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyWarehouseList.Name, warehouses.List), nil),
		get:    idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyWarehouseRead.Name, warehouses.Get)),
		update: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyWarehouseUpdate.Name, warehouses.Update),
			bindID(func(in *usecase.UpdateWarehouseInput, id string) { in.ID = id })),
		delete: deleteEndpoint(rsp, usecase.AuthenticatedExec(resolver, usecase.PolicyWarehouseDelete.Name, warehouses.Delete)),
		createItem: jsonEndpoint(rsp, http.StatusCreated, usecase.Authenticated(resolver, usecase.PolicyInventoryCreate.Name, inventory.Create),
			bindID(func(in *usecase.CreateInventoryItemInput, id string) { in.WarehouseID = id })),
		listItems: listEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyInventoryList.Name, inventory.ListByWarehouse),
			bindID(func(in *usecase.ListInventoryInput, id string) { in.WarehouseID = id })),
	}
}

func (h *WarehouseHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.DELETE("/:id", h.delete)
	r.POST("/:id/inventory", h.createItem)
	r.GET("/:id/inventory", h.listItems)
}

// InventoryHandler exposes operations on a single inventory item.
type InventoryHandler struct {
	get      gin.HandlerFunc
	update   gin.HandlerFunc
	adjust   gin.HandlerFunc
	transfer gin.HandlerFunc
	delete   gin.HandlerFunc
}

func NewInventoryHandler(resolver usecase.PrincipalResolver, inventory *usecase.InventoryService, rsp *Responder) *InventoryHandler {
	return &InventoryHandler{
		get: idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyInventoryRead.Name, inventory.Get)),
		update: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyInventoryUpdate.Name, inventory.Update),
			bindID(func(in *usecase.UpdateInventoryItemInput, id string) { in.ID = id })),
		adjust: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyInventoryAdjust.Name, inventory.Adjust),
			bindID(func(in *usecase.AdjustInventoryInput, id string) { in.ID = id })),
		transfer: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyInventoryTransfer.Name, inventory.Transfer),
			bindID(func(in *usecase.TransferInventoryInput, id string) { in.ItemID = id })),
		delete: deleteEndpoint(rsp, usecase.AuthenticatedExec(resolver, usecase.PolicyInventoryDelete.Name, inventory.Delete)),
	}
}

func (h *InventoryHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.POST("/:id/adjustments", h.adjust)
	r.POST("/:id/transfers", h.transfer)
	r.DELETE("/:id", h.delete)
}
