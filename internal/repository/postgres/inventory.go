package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

const inventoryTable = "logitrack.inventory_items"

var inventoryColumns = []string{
	"id",
	"tenant_id",
	"warehouse_id",
	"sku",
	"name",
	"quantity",
	"reorder_level",
	"created_at",
	"updated_at",
}

// InventoryRepository implements port.InventoryRepository using PostgreSQL.
type InventoryRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewInventoryRepository wires a PostgreSQL-backed inventory repository.
func NewInventoryRepository(exec pgExecutor) *InventoryRepository {
	return &InventoryRepository{exec: exec, builder: newBuilder()}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *InventoryRepository) WithTx(tx pgx.Tx) *InventoryRepository {
	if tx == nil {
		return r
	}
	return &InventoryRepository{exec: tx, builder: r.builder}
}

// Create inserts a new stock item.
func (r *InventoryRepository) Create(ctx context.Context, item domain.InventoryItem) error {
	stmt, args, err := r.builder.Insert(inventoryTable).
		Columns(inventoryColumns...).
		Values(
			item.ID,
			item.TenantID,
			item.WarehouseID,
			item.SKU,
			item.Name,
			item.Quantity,
			item.ReorderLevel,
			item.CreatedAt,
			item.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert inventory item sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert inventory item")
	}

	return nil
}

// GetByID retrieves a stock item owned by tenantID.
func (r *InventoryRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.InventoryItem, error) {
	return r.getOne(ctx, tenantScoped(tenantID, id))
}

// GetBySKU retrieves the item with the given SKU in a warehouse.
func (r *InventoryRepository) GetBySKU(ctx context.Context, tenantID, warehouseID, sku string) (*domain.InventoryItem, error) {
	return r.getOne(ctx, squirrel.Eq{"tenant_id": tenantID, "warehouse_id": warehouseID, "sku": sku})
}

func (r *InventoryRepository) getOne(ctx context.Context, pred squirrel.Eq) (*domain.InventoryItem, error) {
	stmt, args, err := r.builder.Select(inventoryColumns...).
		From(inventoryTable).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select inventory item sql: %w", err)
	}

	item, err := scanInventoryItem(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, translateError(err, "scan inventory item")
	}

	return item, nil
}

// ListByWarehouse returns the stock of one warehouse ordered by SKU.
func (r *InventoryRepository) ListByWarehouse(ctx context.Context, tenantID, warehouseID string, filter port.ListFilter) ([]domain.InventoryItem, error) {
	query := r.builder.Select(inventoryColumns...).
		From(inventoryTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "warehouse_id": warehouseID}).
		OrderBy("sku ASC")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"sku": pattern},
			squirrel.ILike{"name": pattern},
		})
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list inventory sql: %w", err)
	}

	return r.queryItems(ctx, stmt, args)
}

func (r *InventoryRepository) queryItems(ctx context.Context, stmt string, args []any) ([]domain.InventoryItem, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0)
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}

	return items, nil
}

// Update persists the descriptive attributes of a stock item. Quantity moves through AdjustQuantity.
func (r *InventoryRepository) Update(ctx context.Context, item domain.InventoryItem) error {
	stmt, args, err := r.builder.Update(inventoryTable).
		Set("sku", item.SKU).
		Set("name", item.Name).
		Set("reorder_level", item.ReorderLevel).
		Set("updated_at", item.UpdatedAt).
		Where(tenantScoped(item.TenantID, item.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update inventory item sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "update inventory item")
}

// Delete removes a stock item owned by tenantID.
func (r *InventoryRepository) Delete(ctx context.Context, tenantID, id string) error {
	stmt, args, err := r.builder.Delete(inventoryTable).
		Where(tenantScoped(tenantID, id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete inventory item sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "delete inventory item")
}

// AdjustQuantity adds delta to the stored quantity in a single statement.
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, tenantID, id string, delta int) (int, error) {
	stmt, args, err := r.builder.Update(inventoryTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Set("updated_at", time.Now().UTC()).
		Where(tenantScoped(tenantID, id)).
		Where(squirrel.Expr("quantity + ? >= 0", delta)).
		Suffix("RETURNING quantity").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build adjust inventory sql: %w", err)
	}

	var quantity int
	err = r.exec.QueryRow(ctx, stmt, args...).Scan(&quantity)
	if err == nil {
		return quantity, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, translateError(err, "adjust inventory")
	}

	// No row matched: either the item is missing or the guard rejected the delta.
	if _, err := r.GetByID(ctx, tenantID, id); err != nil {
		return 0, err
	}
	return 0, repository.ErrInsufficientStock
}

func scanInventoryItem(row rowScanner) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	if err := row.Scan(
		&item.ID,
		&item.TenantID,
		&item.WarehouseID,
		&item.SKU,
		&item.Name,
		&item.Quantity,
		&item.ReorderLevel,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

var _ port.InventoryRepository = (*InventoryRepository)(nil)
