package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

// CreateInventoryItemInput stocks a new SKU in a warehouse.
type CreateInventoryItemInput struct {
	WarehouseID  string `json:"-" validate:"required"`
	SKU          string `json:"sku" validate:"required,max=64"`
	Name         string `json:"name" validate:"required,max=128"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
	ReorderLevel int    `json:"reorder_level" validate:"gte=0"`
}

// UpdateInventoryItemInput lists the item attributes an update may change.
// Quantity moves through Adjust and Transfer only.
type UpdateInventoryItemInput struct {
	ID           string  `json:"-" validate:"required"`
	Name         *string `json:"name" validate:"omitempty,min=1,max=128"`
	ReorderLevel *int    `json:"reorder_level" validate:"omitempty,gte=0"`
}

// ListInventoryInput narrows the stock listing of one warehouse.
type ListInventoryInput struct {
	WarehouseID string `form:"-" json:"-" validate:"required"`
	Search      string `form:"q" json:"q"`
	Limit       int    `form:"limit" json:"limit"`
	Offset      int    `form:"offset" json:"offset"`
}

// AdjustInventoryInput applies a signed stock correction.
type AdjustInventoryInput struct {
	ID     string `json:"-" validate:"required"`
	Delta  int    `json:"delta" validate:"ne=0"`
	Reason string `json:"reason" validate:"omitempty,max=256"`
}

// TransferInventoryInput moves stock of one item to another warehouse of the same tenant.
type TransferInventoryInput struct {
	ItemID        string `json:"-" validate:"required"`
	ToWarehouseID string `json:"to_warehouse_id" validate:"required"`
	Quantity      int    `json:"quantity" validate:"gt=0"`
}

// TransferResult reports both sides of a completed transfer.
type TransferResult struct {
	Source      domain.InventoryItem `json:"source"`
	Destination domain.InventoryItem `json:"destination"`
}

// InventoryService manages stock nested under warehouses. The owning
// warehouse's tenant is the target tenant of every write.
type InventoryService struct {
	controller
	items port.InventoryRepository
	uow   port.UnitOfWork
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(deps ControllerDeps, items port.InventoryRepository, uow port.UnitOfWork) *InventoryService {
	return &InventoryService{controller: newController(deps), items: items, uow: uow}
}

// Create stocks a SKU in the given warehouse.
func (s *InventoryService) Create(ctx context.Context, actor domain.Principal, input CreateInventoryItemInput) (*domain.InventoryItem, error) {
	op := PolicyInventoryCreate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceWarehouse, input.WarehouseID, PolicyInventoryCreate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	now := s.now()
	item := domain.InventoryItem{
		ID:           s.newID(),
		TenantID:     actor.TenantID,
		WarehouseID:  input.WarehouseID,
		SKU:          strings.ToUpper(strings.TrimSpace(input.SKU)),
		Name:         strings.TrimSpace(input.Name),
		Quantity:     input.Quantity,
		ReorderLevel: input.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, storageError(op, domain.ResourceInventory, err)
	}

	s.publishChange(ctx, actor, domain.ResourceInventory, item.ID, domain.EntityCreated, map[string]any{"warehouse_id": item.WarehouseID})
	return &item, nil
}

// Get returns one stock item.
func (s *InventoryService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.InventoryItem, error) {
	if err := s.authorizeResource(ctx, actor, domain.ResourceInventory, id, PolicyInventoryRead); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, storageError(PolicyInventoryRead.Name, domain.ResourceInventory, err)
	}
	return item, nil
}

// ListByWarehouse returns the stock held in one warehouse.
func (s *InventoryService) ListByWarehouse(ctx context.Context, actor domain.Principal, input ListInventoryInput) ([]domain.InventoryItem, error) {
	op := PolicyInventoryList.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceWarehouse, input.WarehouseID, PolicyInventoryList); err != nil {
		return nil, err
	}

	items, err := s.items.ListByWarehouse(ctx, actor.TenantID, input.WarehouseID, listFilter("", input.Search, input.Limit, input.Offset))
	if err != nil {
		return nil, storageError(op, domain.ResourceInventory, err)
	}
	return items, nil
}

// Update changes descriptive attributes of a stock item.
func (s *InventoryService) Update(ctx context.Context, actor domain.Principal, input UpdateInventoryItemInput) (*domain.InventoryItem, error) {
	op := PolicyInventoryUpdate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceInventory, input.ID, PolicyInventoryUpdate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceInventory, err)
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.ReorderLevel != nil {
		item.ReorderLevel = *input.ReorderLevel
	}
	item.UpdatedAt = s.now()

	if err := s.items.Update(ctx, *item); err != nil {
		return nil, storageError(op, domain.ResourceInventory, err)
	}

	s.publishChange(ctx, actor, domain.ResourceInventory, item.ID, domain.EntityUpdated, nil)
	return item, nil
}

// Adjust applies a signed quantity change. Stock never goes below zero.
func (s *InventoryService) Adjust(ctx context.Context, actor domain.Principal, input AdjustInventoryInput) (*domain.InventoryItem, error) {
	op := PolicyInventoryAdjust.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceInventory, input.ID, PolicyInventoryAdjust); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	quantity, err := s.items.AdjustQuantity(ctx, actor.TenantID, input.ID, input.Delta)
	if err != nil {
		return nil, storageError(op, domain.ResourceInventory, err)
	}

	item, err := s.items.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceInventory, err)
	}
	item.Quantity = quantity

	metadata := map[string]any{"delta": input.Delta, "quantity": quantity}
	if input.Reason != "" {
		metadata["reason"] = input.Reason
	}
	s.publishChange(ctx, actor, domain.ResourceInventory, item.ID, domain.EntityUpdated, metadata)
	return item, nil
}

// Transfer moves stock between two warehouses of the actor's tenant. The
// destination item is created on first transfer of a SKU. Both sides change
// in one transaction.
func (s *InventoryService) Transfer(ctx context.Context, actor domain.Principal, input TransferInventoryInput) (*TransferResult, error) {
	op := PolicyInventoryTransfer.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceInventory, input.ItemID, PolicyInventoryTransfer); err != nil {
		return nil, err
	}
	if err := s.authorizeResource(ctx, actor, domain.ResourceWarehouse, input.ToWarehouseID, PolicyInventoryTransfer); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	tenantID := actor.TenantID
	var result TransferResult

	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos port.TxRepositories) error {
		source, err := repos.Inventory.GetByID(ctx, tenantID, input.ItemID)
		if err != nil {
			return storageError(op, domain.ResourceInventory, err)
		}
		if source.WarehouseID == input.ToWarehouseID {
			return invalidInput(op, "to_warehouse_id", "destination must differ from the source warehouse")
		}

		remaining, err := repos.Inventory.AdjustQuantity(ctx, tenantID, source.ID, -input.Quantity)
		if err != nil {
			return storageError(op, domain.ResourceInventory, err)
		}
		source.Quantity = remaining

		destination, err := repos.Inventory.GetBySKU(ctx, tenantID, input.ToWarehouseID, source.SKU)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			now := s.now()
			destination = &domain.InventoryItem{
				ID:           s.newID(),
				TenantID:     tenantID,
				WarehouseID:  input.ToWarehouseID,
				SKU:          source.SKU,
				Name:         source.Name,
				Quantity:     input.Quantity,
				ReorderLevel: source.ReorderLevel,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := repos.Inventory.Create(ctx, *destination); err != nil {
				return storageError(op, domain.ResourceInventory, err)
			}
		case err != nil:
			return storageError(op, domain.ResourceInventory, err)
		default:
			total, err := repos.Inventory.AdjustQuantity(ctx, tenantID, destination.ID, input.Quantity)
			if err != nil {
				return storageError(op, domain.ResourceInventory, err)
			}
			destination.Quantity = total
		}

		result = TransferResult{Source: *source, Destination: *destination}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishChange(ctx, actor, domain.ResourceInventory, result.Source.ID, domain.EntityUpdated, map[string]any{
		"transfer_to": result.Destination.ID,
		"quantity":    input.Quantity,
	})
	return &result, nil
}

// Delete removes a stock item.
func (s *InventoryService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	op := PolicyInventoryDelete.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceInventory, id, PolicyInventoryDelete); err != nil {
		return err
	}

	if err := s.items.Delete(ctx, actor.TenantID, id); err != nil {
		return storageError(op, domain.ResourceInventory, err)
	}

	s.publishChange(ctx, actor, domain.ResourceInventory, id, domain.EntityDeleted, nil)
	return nil
}
