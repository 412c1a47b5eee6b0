package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/transport/http/middleware"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// ShipmentHandler exposes shipment endpoints and the CSV export.
type ShipmentHandler struct {
	rsp    *Responder
	create gin.HandlerFunc
	list   gin.HandlerFunc
	get    gin.HandlerFunc
	update gin.HandlerFunc
	status gin.HandlerFunc
	delete gin.HandlerFunc
	export func(ctx context.Context, token string, in usecase.ListShipmentsInput) ([]domain.Shipment, error)
}

func NewShipmentHandler(resolver usecase.PrincipalResolver, shipments *usecase.ShipmentService, rsp *Responder) *ShipmentHandler {
	return &ShipmentHandler{
		rsp:    rsp,
		create: jsonEndpoint(rsp, http.StatusCreated, usecase.Authenticated(resolver, usecase.PolicyShipmentCreate.Name, shipments.Create), nil),
		list:   listEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyShipmentList.Name, shipments.List), nil),
		get:    idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyShipmentRead.Name, shipments.Get)),
		update: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyShipmentUpdate.Name, shipments.Update),
			bindID(func(in *usecase.UpdateShipmentInput, id string) { in.ID = id })),
		status: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyShipmentStatus.Name, shipments.UpdateStatus),
			bindID(func(in *usecase.UpdateShipmentStatusInput, id string) { in.ID = id })),
		delete: deleteEndpoint(rsp, usecase.AuthenticatedExec(resolver, usecase.PolicyShipmentDelete.Name, shipments.Delete)),
		export: usecase.AuthenticatedWithToken(resolver, usecase.PolicyShipmentList.Name, shipments.Export),
	}
}

func (h *ShipmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.PUT("/:id/status", h.status)
	r.DELETE("/:id", h.delete)
}

// RegisterExportRoutes mounts the CSV export. Download links opened by a browser
// cannot set headers, so the credential may also arrive as access_token.
func (h *ShipmentHandler) RegisterExportRoutes(r *gin.RouterGroup) {
	r.GET("/shipments.csv", h.exportCSV)
}

func (h *ShipmentHandler) exportCSV(c *gin.Context) {
	token := strings.TrimSpace(c.Query("access_token"))
	if token == "" {
		token = middleware.ExtractCredential(c)
	}

	var in usecase.ListShipmentsInput
	if err := c.ShouldBindQuery(&in); err != nil {
		h.rsp.BadRequest(c, "", "query parameters are not valid")
		return
	}

	rows, err := h.export(c.Request.Context(), token, in)
	if err != nil {
		h.rsp.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="shipments-%s.csv"`, time.Now().UTC().Format("20060102")))
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	c.Writer.Header().Set("Content-Type", "text/csv; charset=utf-8")

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "tracking_number", "status", "destination", "weight_kg", "scheduled_at", "delivered_at", "created_at"})
	for _, s := range rows {
		_ = w.Write([]string{
			s.ID,
			s.TrackingNumber,
			string(s.Status),
			s.Destination,
			strconv.FormatFloat(s.WeightKg, 'f', -1, 64),
			formatOptionalTime(s.ScheduledAt),
			formatOptionalTime(s.DeliveredAt),
			s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = c.Error(err)
	}
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
