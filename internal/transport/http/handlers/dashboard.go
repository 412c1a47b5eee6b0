package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

type volumeQuery struct {
	Months int `form:"months"`
}

type lowStockQuery struct {
	Limit int `form:"limit"`
}

// DashboardHandler exposes the KPI aggregations of the caller's tenant.
type DashboardHandler struct {
	fleet    gin.HandlerFunc
	statuses gin.HandlerFunc
	volume   gin.HandlerFunc
	lowStock gin.HandlerFunc
}

func NewDashboardHandler(resolver usecase.PrincipalResolver, dashboard *usecase.DashboardService, rsp *Responder) *DashboardHandler {
	name := usecase.PolicyDashboardRead.Name

	fleet := func(ctx context.Context, actor domain.Principal, _ struct{}) (*domain.FleetOverview, error) {
		return dashboard.FleetOverview(ctx, actor)
	}
	statuses := func(ctx context.Context, actor domain.Principal, _ struct{}) ([]domain.ChartPoint, error) {
		return dashboard.ShipmentStatusBreakdown(ctx, actor)
	}
	volume := func(ctx context.Context, actor domain.Principal, q volumeQuery) ([]domain.ChartPoint, error) {
		return dashboard.ShipmentVolume(ctx, actor, q.Months)
	}
	lowStock := func(ctx context.Context, actor domain.Principal, q lowStockQuery) ([]domain.InventoryItem, error) {
		return dashboard.LowStockItems(ctx, actor, q.Limit)
	}

	return &DashboardHandler{
		fleet:    queryEndpoint(rsp, usecase.Authenticated(resolver, name, fleet)),
		statuses: listEndpoint(rsp, usecase.Authenticated(resolver, name, statuses), nil),
		volume:   listEndpoint(rsp, usecase.Authenticated(resolver, name, volume), nil),
		lowStock: listEndpoint(rsp, usecase.Authenticated(resolver, name, lowStock), nil),
	}
}

func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/fleet", h.fleet)
	r.GET("/shipments/status", h.statuses)
	r.GET("/shipments/volume", h.volume)
	r.GET("/inventory/low-stock", h.lowStock)
}
