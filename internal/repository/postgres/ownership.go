package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

var resourceTables = map[domain.ResourceKind]string{
	domain.ResourceVehicle:   "logitrack.vehicles",
	domain.ResourceDriver:    "logitrack.drivers",
	domain.ResourceShipment:  "logitrack.shipments",
	domain.ResourceRoute:     "logitrack.routes",
	domain.ResourceWarehouse: "logitrack.warehouses",
	domain.ResourceInventory: "logitrack.inventory_items",
	domain.ResourceDocument:  "logitrack.documents",
	domain.ResourceCustomer:  "logitrack.customers",
	domain.ResourceRole:      "logitrack.roles",
	domain.ResourceUser:      "logitrack.users",
}

// OwnershipRepository answers "which tenant owns this row" without loading the row.
type OwnershipRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewOwnershipRepository constructs a projection-only ownership lookup.
func NewOwnershipRepository(exec pgExecutor) *OwnershipRepository {
	return &OwnershipRepository{exec: exec, builder: newBuilder()}
}

// TenantOf returns the tenant_id stored on the identified resource.
func (r *OwnershipRepository) TenantOf(ctx context.Context, kind domain.ResourceKind, id string) (string, error) {
	table, ok := resourceTables[kind]
	if !ok {
		return "", fmt.Errorf("ownership lookup: unknown resource kind %q", kind)
	}

	stmt, args, err := r.builder.Select("tenant_id").
		From(table).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build ownership sql: %w", err)
	}

	var tenantID string
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&tenantID); err != nil {
		return "", translateError(err, "query ownership")
	}

	return tenantID, nil
}

var _ port.OwnershipLookup = (*OwnershipRepository)(nil)
