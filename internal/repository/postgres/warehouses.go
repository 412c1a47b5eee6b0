package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const warehousesTable = "logitrack.warehouses"

var warehouseColumns = []string{
	"id",
	"tenant_id",
	"code",
	"name",
	"address",
	"capacity_units",
	"created_at",
	"updated_at",
}

// WarehouseRepository implements port.WarehouseRepository using PostgreSQL.
type WarehouseRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewWarehouseRepository wires a PostgreSQL-backed warehouse repository.
func NewWarehouseRepository(exec pgExecutor) *WarehouseRepository {
	return &WarehouseRepository{exec: exec, builder: newBuilder()}
}

// Create inserts a new warehouse row.
func (r *WarehouseRepository) Create(ctx context.Context, warehouse domain.Warehouse) error {
	stmt, args, err := r.builder.Insert(warehousesTable).
		Columns(warehouseColumns...).
		Values(
			warehouse.ID,
			warehouse.TenantID,
			warehouse.Code,
			warehouse.Name,
			warehouse.Address,
			warehouse.CapacityUnits,
			warehouse.CreatedAt,
			warehouse.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert warehouse sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert warehouse")
	}

	return nil
}

// GetByID retrieves a warehouse owned by tenantID.
func (r *WarehouseRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Warehouse, error) {
	stmt, args, err := r.builder.Select(warehouseColumns...).
		From(warehousesTable).
		Where(tenantScoped(tenantID, id)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select warehouse sql: %w", err)
	}

	warehouse, err := scanWarehouse(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, translateError(err, "scan warehouse")
	}

	return warehouse, nil
}

// List returns the warehouses of a tenant ordered by code.
func (r *WarehouseRepository) List(ctx context.Context, tenantID string, filter port.ListFilter) ([]domain.Warehouse, error) {
	query := r.builder.Select(warehouseColumns...).
		From(warehousesTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("code ASC")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"name": pattern},
		})
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list warehouses sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := make([]domain.Warehouse, 0)
	for rows.Next() {
		warehouse, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		warehouses = append(warehouses, *warehouse)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warehouses: %w", err)
	}

	return warehouses, nil
}

// Update persists the mutable warehouse attributes.
func (r *WarehouseRepository) Update(ctx context.Context, warehouse domain.Warehouse) error {
	stmt, args, err := r.builder.Update(warehousesTable).
		Set("code", warehouse.Code).
		Set("name", warehouse.Name).
		Set("address", warehouse.Address).
		Set("capacity_units", warehouse.CapacityUnits).
		Set("updated_at", warehouse.UpdatedAt).
		Where(tenantScoped(warehouse.TenantID, warehouse.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update warehouse sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "update warehouse")
}

// Delete removes a warehouse owned by tenantID. Inventory rows cascade.
func (r *WarehouseRepository) Delete(ctx context.Context, tenantID, id string) error {
	stmt, args, err := r.builder.Delete(warehousesTable).
		Where(tenantScoped(tenantID, id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete warehouse sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "delete warehouse")
}

func scanWarehouse(row rowScanner) (*domain.Warehouse, error) {
	var warehouse domain.Warehouse
	if err := row.Scan(
		&warehouse.ID,
		&warehouse.TenantID,
		&warehouse.Code,
		&warehouse.Name,
		&warehouse.Address,
		&warehouse.CapacityUnits,
		&warehouse.CreatedAt,
		&warehouse.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &warehouse, nil
}

var _ port.WarehouseRepository = (*WarehouseRepository)(nil)
