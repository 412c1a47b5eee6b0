package usecase

import (
	"context"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// CreateShipmentInput captures the payload for booking a shipment. An empty
// tracking number is generated.
type CreateShipmentInput struct {
	TrackingNumber    string     `json:"tracking_number" validate:"omitempty,max=64"`
	CustomerID        *string    `json:"customer_id"`
	OriginWarehouseID *string    `json:"origin_warehouse_id"`
	RouteID           *string    `json:"route_id"`
	Destination       string     `json:"destination" validate:"required,max=256"`
	WeightKg          float64    `json:"weight_kg" validate:"gte=0"`
	ScheduledAt       *time.Time `json:"scheduled_at"`
}

// UpdateShipmentInput lists the shipment attributes an update may change.
// Status moves through UpdateStatus only.
type UpdateShipmentInput struct {
	ID                string     `json:"-" validate:"required"`
	CustomerID        *string    `json:"customer_id"`
	OriginWarehouseID *string    `json:"origin_warehouse_id"`
	RouteID           *string    `json:"route_id"`
	Destination       *string    `json:"destination" validate:"omitempty,min=1,max=256"`
	WeightKg          *float64   `json:"weight_kg" validate:"omitempty,gte=0"`
	ScheduledAt       *time.Time `json:"scheduled_at"`
}

// UpdateShipmentStatusInput moves a shipment through its lifecycle.
type UpdateShipmentStatusInput struct {
	ID     string                `json:"-" validate:"required"`
	Status domain.ShipmentStatus `json:"status" validate:"required,oneof=pending in_transit delivered cancelled"`
}

// ListShipmentsInput narrows a shipment listing.
type ListShipmentsInput struct {
	Status string `form:"status" json:"status" validate:"omitempty,oneof=pending in_transit delivered cancelled"`
	Search string `form:"q" json:"q"`
	Limit  int    `form:"limit" json:"limit"`
	Offset int    `form:"offset" json:"offset"`
}

// ShipmentService manages shipments and their lifecycle.
type ShipmentService struct {
	controller
	shipments port.ShipmentRepository
}

// NewShipmentService constructs a ShipmentService.
func NewShipmentService(deps ControllerDeps, shipments port.ShipmentRepository) *ShipmentService {
	return &ShipmentService{controller: newController(deps), shipments: shipments}
}

// Create books a shipment in the actor's tenant.
func (s *ShipmentService) Create(ctx context.Context, actor domain.Principal, input CreateShipmentInput) (*domain.Shipment, error) {
	op := PolicyShipmentCreate.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyShipmentCreate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}
	if err := s.authorizeLinks(ctx, actor, input.CustomerID, input.OriginWarehouseID, input.RouteID, PolicyShipmentCreate); err != nil {
		return nil, err
	}

	tracking := strings.ToUpper(strings.TrimSpace(input.TrackingNumber))
	if tracking == "" {
		tracking = newTrackingNumber()
	}

	now := s.now()
	shipment := domain.Shipment{
		ID:                s.newID(),
		TenantID:          actor.TenantID,
		TrackingNumber:    tracking,
		CustomerID:        trimmedPtr(input.CustomerID),
		OriginWarehouseID: trimmedPtr(input.OriginWarehouseID),
		RouteID:           trimmedPtr(input.RouteID),
		Destination:       strings.TrimSpace(input.Destination),
		WeightKg:          input.WeightKg,
		Status:            domain.ShipmentStatusPending,
		ScheduledAt:       input.ScheduledAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.shipments.Create(ctx, shipment); err != nil {
		return nil, storageError(op, domain.ResourceShipment, err)
	}

	s.publishChange(ctx, actor, domain.ResourceShipment, shipment.ID, domain.EntityCreated, nil)
	return &shipment, nil
}

// Get returns one shipment of the actor's tenant.
func (s *ShipmentService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.Shipment, error) {
	if err := s.authorizeResource(ctx, actor, domain.ResourceShipment, id, PolicyShipmentRead); err != nil {
		return nil, err
	}

	shipment, err := s.shipments.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, storageError(PolicyShipmentRead.Name, domain.ResourceShipment, err)
	}
	return shipment, nil
}

// List returns the shipments of the actor's tenant.
func (s *ShipmentService) List(ctx context.Context, actor domain.Principal, input ListShipmentsInput) ([]domain.Shipment, error) {
	op := PolicyShipmentList.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyShipmentList); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	shipments, err := s.shipments.List(ctx, actor.TenantID, listFilter(input.Status, input.Search, input.Limit, input.Offset))
	if err != nil {
		return nil, storageError(op, domain.ResourceShipment, err)
	}
	return shipments, nil
}

const (
	exportPageSize = maxPageSize
	maxExportRows  = 5000
)

// Export reads up to maxExportRows shipments of the actor's tenant page by
// page. The actor is checked once so every page is read under the same
// principal.
func (s *ShipmentService) Export(ctx context.Context, actor domain.Principal, input ListShipmentsInput) ([]domain.Shipment, error) {
	op := PolicyShipmentList.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyShipmentList); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	rows := make([]domain.Shipment, 0, exportPageSize)
	for offset := 0; offset < maxExportRows; {
		limit := min(exportPageSize, maxExportRows-offset)
		page, err := s.shipments.List(ctx, actor.TenantID, listFilter(input.Status, input.Search, limit, offset))
		if err != nil {
			return nil, storageError(op, domain.ResourceShipment, err)
		}
		rows = append(rows, page...)
		if len(page) < limit {
			break
		}
		offset += len(page)
	}
	return rows, nil
}

// Update changes the supplied attributes of a shipment.
func (s *ShipmentService) Update(ctx context.Context, actor domain.Principal, input UpdateShipmentInput) (*domain.Shipment, error) {
	op := PolicyShipmentUpdate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceShipment, input.ID, PolicyShipmentUpdate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}
	if err := s.authorizeLinks(ctx, actor, input.CustomerID, input.OriginWarehouseID, input.RouteID, PolicyShipmentUpdate); err != nil {
		return nil, err
	}

	shipment, err := s.shipments.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceShipment, err)
	}

	if input.CustomerID != nil {
		shipment.CustomerID = trimmedPtr(input.CustomerID)
	}
	if input.OriginWarehouseID != nil {
		shipment.OriginWarehouseID = trimmedPtr(input.OriginWarehouseID)
	}
	if input.RouteID != nil {
		shipment.RouteID = trimmedPtr(input.RouteID)
	}
	if input.Destination != nil {
		shipment.Destination = strings.TrimSpace(*input.Destination)
	}
	if input.WeightKg != nil {
		shipment.WeightKg = *input.WeightKg
	}
	if input.ScheduledAt != nil {
		shipment.ScheduledAt = input.ScheduledAt
	}
	shipment.UpdatedAt = s.now()

	if err := s.shipments.Update(ctx, *shipment); err != nil {
		return nil, storageError(op, domain.ResourceShipment, err)
	}

	s.publishChange(ctx, actor, domain.ResourceShipment, shipment.ID, domain.EntityUpdated, nil)
	return shipment, nil
}

// UpdateStatus applies a lifecycle transition. Repeating the current status is a no-op.
func (s *ShipmentService) UpdateStatus(ctx context.Context, actor domain.Principal, input UpdateShipmentStatusInput) (*domain.Shipment, error) {
	op := PolicyShipmentStatus.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceShipment, input.ID, PolicyShipmentStatus); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	shipment, err := s.shipments.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceShipment, err)
	}
	if shipment.Status == input.Status {
		return shipment, nil
	}
	if !shipment.Status.CanTransition(input.Status) {
		return nil, invalidInput(op, "status", "cannot move shipment from "+string(shipment.Status)+" to "+string(input.Status))
	}

	previous := shipment.Status
	now := s.now()
	shipment.Status = input.Status
	if input.Status == domain.ShipmentStatusDelivered {
		shipment.DeliveredAt = &now
	}
	shipment.UpdatedAt = now

	if err := s.shipments.Update(ctx, *shipment); err != nil {
		return nil, storageError(op, domain.ResourceShipment, err)
	}

	s.publishChange(ctx, actor, domain.ResourceShipment, shipment.ID, domain.EntityUpdated, map[string]any{
		"from_status": string(previous),
		"to_status":   string(input.Status),
	})
	return shipment, nil
}

// Delete removes a shipment.
func (s *ShipmentService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	op := PolicyShipmentDelete.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceShipment, id, PolicyShipmentDelete); err != nil {
		return err
	}

	if err := s.shipments.Delete(ctx, actor.TenantID, id); err != nil {
		return storageError(op, domain.ResourceShipment, err)
	}

	s.publishChange(ctx, actor, domain.ResourceShipment, id, domain.EntityDeleted, nil)
	return nil
}

func (s *ShipmentService) authorizeLinks(ctx context.Context, actor domain.Principal, customerID, warehouseID, routeID *string, policy Policy) error {
	if err := s.authorizeReference(ctx, actor, domain.ResourceCustomer, trimmedPtr(customerID), policy); err != nil {
		return err
	}
	if err := s.authorizeReference(ctx, actor, domain.ResourceWarehouse, trimmedPtr(warehouseID), policy); err != nil {
		return err
	}
	return s.authorizeReference(ctx, actor, domain.ResourceRoute, trimmedPtr(routeID), policy)
}

func newTrackingNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "LT" + strings.ToUpper(raw[:12])
}
