package usecase

import (
	"context"
	"strings"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// CreateWarehouseInput captures the payload for opening a warehouse.
type CreateWarehouseInput struct {
	Code          string `json:"code" validate:"required,max=32"`
	Name          string `json:"name" validate:"required,max=128"`
	Address       string `json:"address" validate:"required,max=256"`
	CapacityUnits int    `json:"capacity_units" validate:"gte=0"`
}

// UpdateWarehouseInput lists the warehouse attributes an update may change.
type UpdateWarehouseInput struct {
	ID            string  `json:"-" validate:"required"`
	Code          *string `json:"code" validate:"omitempty,min=1,max=32"`
	Name          *string `json:"name" validate:"omitempty,min=1,max=128"`
	Address       *string `json:"address" validate:"omitempty,min=1,max=256"`
	CapacityUnits *int    `json:"capacity_units" validate:"omitempty,gte=0"`
}

// ListWarehousesInput narrows a warehouse listing.
type ListWarehousesInput struct {
	Search string `form:"q" json:"q"`
	Limit  int    `form:"limit" json:"limit"`
	Offset int    `form:"offset" json:"offset"`
}

// WarehouseService manages warehouses.
type WarehouseService struct {
	controller
	warehouses port.WarehouseRepository
}

// NewWarehouseService constructs a WarehouseService.
func NewWarehouseService(deps ControllerDeps, warehouses port.WarehouseRepository) *WarehouseService {
	return &WarehouseService{controller: newController(deps), warehouses: warehouses}
}

// Create opens a warehouse in the actor's tenant.
func (s *WarehouseService) Create(ctx context.Context, actor domain.Principal, input CreateWarehouseInput) (*domain.Warehouse, error) {
	op := PolicyWarehouseCreate.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyWarehouseCreate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	now := s.now()
	warehouse := domain.Warehouse{
		ID:            s.newID(),
		TenantID:      actor.TenantID,
		Code:          strings.ToUpper(strings.TrimSpace(input.Code)),
		Name:          strings.TrimSpace(input.Name),
		Address:       strings.TrimSpace(input.Address),
		CapacityUnits: input.CapacityUnits,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.warehouses.Create(ctx, warehouse); err != nil {
		return nil, storageError(op, domain.ResourceWarehouse, err)
	}

	s.publishChange(ctx, actor, domain.ResourceWarehouse, warehouse.ID, domain.EntityCreated, nil)
	return &warehouse, nil
}

// Get returns one warehouse of the actor's tenant.
func (s *WarehouseService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.Warehouse, error) {
	if err := s.authorizeResource(ctx, actor, domain.ResourceWarehouse, id, PolicyWarehouseRead); err != nil {
		return nil, err
	}

	warehouse, err := s.warehouses.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, storageError(PolicyWarehouseRead.Name, domain.ResourceWarehouse, err)
	}
	return warehouse, nil
}

// List returns the warehouses of the actor's tenant.
func (s *WarehouseService) List(ctx context.Context, actor domain.Principal, input ListWarehousesInput) ([]domain.Warehouse, error) {
	op := PolicyWarehouseList.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyWarehouseList); err != nil {
		return nil, err
	}

	warehouses, err := s.warehouses.List(ctx, actor.TenantID, listFilter("", input.Search, input.Limit, input.Offset))
	if err != nil {
		return nil, storageError(op, domain.ResourceWarehouse, err)
	}
	return warehouses, nil
}

// Update changes the supplied attributes of a warehouse.
func (s *WarehouseService) Update(ctx context.Context, actor domain.Principal, input UpdateWarehouseInput) (*domain.Warehouse, error) {
	op := PolicyWarehouseUpdate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceWarehouse, input.ID, PolicyWarehouseUpdate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	warehouse, err := s.warehouses.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceWarehouse, err)
	}

	if input.Code != nil {
		warehouse.Code = strings.ToUpper(strings.TrimSpace(*input.Code))
	}
	if input.Name != nil {
		warehouse.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		warehouse.Address = strings.TrimSpace(*input.Address)
	}
	if input.CapacityUnits != nil {
		warehouse.CapacityUnits = *input.CapacityUnits
	}
	warehouse.UpdatedAt = s.now()

	if err := s.warehouses.Update(ctx, *warehouse); err != nil {
		return nil, storageError(op, domain.ResourceWarehouse, err)
	}

	s.publishChange(ctx, actor, domain.ResourceWarehouse, warehouse.ID, domain.EntityUpdated, nil)
	return warehouse, nil
}

// Delete removes a warehouse together with its inventory.
func (s *WarehouseService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	op := PolicyWarehouseDelete.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceWarehouse, id, PolicyWarehouseDelete); err != nil {
		return err
	}

	if err := s.warehouses.Delete(ctx, actor.TenantID, id); err != nil {
		return storageError(op, domain.ResourceWarehouse, err)
	}

	s.publishChange(ctx, actor, domain.ResourceWarehouse, id, domain.EntityDeleted, nil)
	return nil
}
