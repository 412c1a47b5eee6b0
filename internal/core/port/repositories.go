package port

import (
	"context"
	"time"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
)

// ListFilter narrows tenant scoped list queries. Zero values disable a filter.
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// VehicleRepository handles vehicle persistence. Every method is scoped by tenant.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle domain.Vehicle) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Vehicle, error)
	GetForUpdate(ctx context.Context, tenantID, id string) (*domain.Vehicle, error)
	List(ctx context.Context, tenantID string, filter ListFilter) ([]domain.Vehicle, error)
	Update(ctx context.Context, vehicle domain.Vehicle) error
	Delete(ctx context.Context, tenantID, id string) error
	SetDriver(ctx context.Context, tenantID, vehicleID string, driverID *string) error
	ClearDriver(ctx context.Context, tenantID, driverID string) error
}

// DriverRepository handles driver persistence.
type DriverRepository interface {
	Create(ctx context.Context, driver domain.Driver) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Driver, error)
	GetForUpdate(ctx context.Context, tenantID, id string) (*domain.Driver, error)
	List(ctx context.Context, tenantID string, filter ListFilter) ([]domain.Driver, error)
	Update(ctx context.Context, driver domain.Driver) error
	Delete(ctx context.Context, tenantID, id string) error
	SetVehicle(ctx context.Context, tenantID, driverID string, vehicleID *string) error
	ClearVehicle(ctx context.Context, tenantID, vehicleID string) error
}

// ShipmentRepository handles shipment persistence.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment domain.Shipment) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Shipment, error)
	List(ctx context.Context, tenantID string, filter ListFilter) ([]domain.Shipment, error)
	Update(ctx context.Context, shipment domain.Shipment) error
	Delete(ctx context.Context, tenantID, id string) error
}

// RouteRepository handles route persistence.
type RouteRepository interface {
	Create(ctx context.Context, route domain.Route) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Route, error)
	List(ctx context.Context, tenantID string, filter ListFilter) ([]domain.Route, error)
	Update(ctx context.Context, route domain.Route) error
	Delete(ctx context.Context, tenantID, id string) error
}

// WarehouseRepository handles warehouse persistence.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse domain.Warehouse) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Warehouse, error)
	List(ctx context.Context, tenantID string, filter ListFilter) ([]domain.Warehouse, error)
	Update(ctx context.Context, warehouse domain.Warehouse) error
	Delete(ctx context.Context, tenantID, id string) error
}

// InventoryRepository handles stock items nested under warehouses.
type InventoryRepository interface {
	Create(ctx context.Context, item domain.InventoryItem) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.InventoryItem, error)
	GetBySKU(ctx context.Context, tenantID, warehouseID, sku string) (*domain.InventoryItem, error)
	ListByWarehouse(ctx context.Context, tenantID, warehouseID string, filter ListFilter) ([]domain.InventoryItem, error)
	Update(ctx context.Context, item domain.InventoryItem) error
	Delete(ctx context.Context, tenantID, id string) error
	// AdjustQuantity applies delta atomically and returns the new quantity.
	// It fails with repository.ErrInsufficientStock when the result would be negative.
	AdjustQuantity(ctx context.Context, tenantID, id string, delta int) (int, error)
}

// DocumentRepository handles documents attached to vehicles, drivers and shipments.
type DocumentRepository interface {
	Create(ctx context.Context, document domain.Document) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error)
	ListByOwner(ctx context.Context, tenantID string, ownerKind domain.DocumentOwnerKind, ownerID string) ([]domain.Document, error)
	Update(ctx context.Context, document domain.Document) error
	Delete(ctx context.Context, tenantID, id string) error
}

// CustomerRepository handles customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error)
	List(ctx context.Context, tenantID string, filter ListFilter) ([]domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) error
	Delete(ctx context.Context, tenantID, id string) error
}

// RoleRepository handles tenant role CRUD and permission grants.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Role, error)
	List(ctx context.Context, tenantID string) ([]domain.Role, error)
	Update(ctx context.Context, role domain.Role) error
	Delete(ctx context.Context, tenantID, id string) error
	GrantPermissions(ctx context.Context, tenantID, roleID string, permissions []string) (int, error)
	RevokePermissions(ctx context.Context, tenantID, roleID string, permissions []string) (int, error)
}

// UserRepository handles tenant members.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.User, error)
	List(ctx context.Context, tenantID string, filter ListFilter) ([]domain.User, error)
	UpdateRole(ctx context.Context, tenantID, userID string, roleID *string) error
	SetActive(ctx context.Context, tenantID, userID string, active bool) error
}

// ReportingRepository exposes tenant scoped aggregations for dashboards.
type ReportingRepository interface {
	CountVehiclesByStatus(ctx context.Context, tenantID string) ([]domain.StatusCount, error)
	CountDriversByStatus(ctx context.Context, tenantID string) ([]domain.StatusCount, error)
	CountUnassignedDrivers(ctx context.Context, tenantID string) (int, error)
	CountShipmentsByStatus(ctx context.Context, tenantID string) ([]domain.StatusCount, error)
	CountShipmentsByMonth(ctx context.Context, tenantID string, since time.Time) ([]domain.PeriodCount, error)
	ListLowStock(ctx context.Context, tenantID string, limit int) ([]domain.InventoryItem, error)
}

// TxRepositories are repositories bound to a single storage transaction.
type TxRepositories struct {
	Vehicles  VehicleRepository
	Drivers   DriverRepository
	Inventory InventoryRepository
	Roles     RoleRepository
}

// UnitOfWork runs fn inside one atomic transaction. Any error returned by fn
// rolls back every statement issued through the supplied repositories.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
