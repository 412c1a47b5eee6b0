package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// ReportingRepository runs tenant scoped aggregations for dashboards.
type ReportingRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewReportingRepository wires a PostgreSQL-backed reporting repository.
func NewReportingRepository(exec pgExecutor) *ReportingRepository {
	return &ReportingRepository{exec: exec, builder: newBuilder()}
}

// CountVehiclesByStatus groups the tenant's vehicles by status.
func (r *ReportingRepository) CountVehiclesByStatus(ctx context.Context, tenantID string) ([]domain.StatusCount, error) {
	return r.countByStatus(ctx, vehiclesTable, tenantID)
}

// CountDriversByStatus groups the tenant's drivers by status.
func (r *ReportingRepository) CountDriversByStatus(ctx context.Context, tenantID string) ([]domain.StatusCount, error) {
	return r.countByStatus(ctx, driversTable, tenantID)
}

// CountShipmentsByStatus groups the tenant's shipments by status.
func (r *ReportingRepository) CountShipmentsByStatus(ctx context.Context, tenantID string) ([]domain.StatusCount, error) {
	return r.countByStatus(ctx, shipmentsTable, tenantID)
}

func (r *ReportingRepository) countByStatus(ctx context.Context, table, tenantID string) ([]domain.StatusCount, error) {
	stmt, args, err := r.builder.Select("status", "COUNT(*)").
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		GroupBy("status").
		OrderBy("status ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count %s by status sql: %w", table, err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s by status: %w", table, err)
	}
	defer rows.Close()

	counts := make([]domain.StatusCount, 0)
	for rows.Next() {
		var count domain.StatusCount
		if err := rows.Scan(&count.Status, &count.Count); err != nil {
			return nil, fmt.Errorf("scan %s status count: %w", table, err)
		}
		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s status counts: %w", table, err)
	}

	return counts, nil
}

// CountUnassignedDrivers counts drivers of the tenant with no vehicle.
func (r *ReportingRepository) CountUnassignedDrivers(ctx context.Context, tenantID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From(driversTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "vehicle_id": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count unassigned drivers sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unassigned drivers: %w", err)
	}

	return count, nil
}

// CountShipmentsByMonth buckets shipments created since the given instant by UTC calendar month.
func (r *ReportingRepository) CountShipmentsByMonth(ctx context.Context, tenantID string, since time.Time) ([]domain.PeriodCount, error) {
	stmt, args, err := r.builder.Select("to_char(date_trunc('month', created_at AT TIME ZONE 'UTC'), 'YYYY-MM') AS period", "COUNT(*)").
		From(shipmentsTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"created_at": since}).
		GroupBy("period").
		OrderBy("period ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count shipments by month sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query shipments by month: %w", err)
	}
	defer rows.Close()

	counts := make([]domain.PeriodCount, 0)
	for rows.Next() {
		var count domain.PeriodCount
		if err := rows.Scan(&count.Period, &count.Count); err != nil {
			return nil, fmt.Errorf("scan shipment month count: %w", err)
		}
		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shipment month counts: %w", err)
	}

	return counts, nil
}

// ListLowStock returns the tenant's items at or below their reorder level, scarcest first.
func (r *ReportingRepository) ListLowStock(ctx context.Context, tenantID string, limit int) ([]domain.InventoryItem, error) {
	query := r.builder.Select(inventoryColumns...).
		From(inventoryTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where("quantity <= reorder_level").
		OrderBy("quantity - reorder_level ASC", "sku ASC")
	query = applyPaging(query, limit, 0)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build low stock sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query low stock: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0)
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate low stock: %w", err)
	}

	return items, nil
}

var _ port.ReportingRepository = (*ReportingRepository)(nil)
