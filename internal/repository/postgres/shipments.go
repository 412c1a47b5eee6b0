package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const shipmentsTable = "logitrack.shipments"

var shipmentColumns = []string{
	"id",
	"tenant_id",
	"tracking_number",
	"customer_id",
	"origin_warehouse_id",
	"route_id",
	"destination",
	"weight_kg",
	"status",
	"scheduled_at",
	"delivered_at",
	"created_at",
	"updated_at",
}

// ShipmentRepository implements port.ShipmentRepository using PostgreSQL.
type ShipmentRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewShipmentRepository wires a PostgreSQL-backed shipment repository.
func NewShipmentRepository(exec pgExecutor) *ShipmentRepository {
	return &ShipmentRepository{exec: exec, builder: newBuilder()}
}

// Create inserts a new shipment row.
func (r *ShipmentRepository) Create(ctx context.Context, shipment domain.Shipment) error {
	stmt, args, err := r.builder.Insert(shipmentsTable).
		Columns(shipmentColumns...).
		Values(
			shipment.ID,
			shipment.TenantID,
			shipment.TrackingNumber,
			shipment.CustomerID,
			shipment.OriginWarehouseID,
			shipment.RouteID,
			shipment.Destination,
			shipment.WeightKg,
			shipment.Status,
			shipment.ScheduledAt,
			shipment.DeliveredAt,
			shipment.CreatedAt,
			shipment.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert shipment sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert shipment")
	}

	return nil
}

// GetByID retrieves a shipment owned by tenantID.
func (r *ShipmentRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Shipment, error) {
	stmt, args, err := r.builder.Select(shipmentColumns...).
		From(shipmentsTable).
		Where(tenantScoped(tenantID, id)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select shipment sql: %w", err)
	}

	shipment, err := scanShipment(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, translateError(err, "scan shipment")
	}

	return shipment, nil
}

// List returns the shipments of a tenant, newest first.
func (r *ShipmentRepository) List(ctx context.Context, tenantID string, filter port.ListFilter) ([]domain.Shipment, error) {
	query := r.builder.Select(shipmentColumns...).
		From(shipmentsTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("created_at DESC")
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"tracking_number": pattern},
			squirrel.ILike{"destination": pattern},
		})
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list shipments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query shipments: %w", err)
	}
	defer rows.Close()

	shipments := make([]domain.Shipment, 0)
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		shipments = append(shipments, *shipment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shipments: %w", err)
	}

	return shipments, nil
}

// Update persists every mutable shipment attribute including status.
func (r *ShipmentRepository) Update(ctx context.Context, shipment domain.Shipment) error {
	stmt, args, err := r.builder.Update(shipmentsTable).
		Set("tracking_number", shipment.TrackingNumber).
		Set("customer_id", shipment.CustomerID).
		Set("origin_warehouse_id", shipment.OriginWarehouseID).
		Set("route_id", shipment.RouteID).
		Set("destination", shipment.Destination).
		Set("weight_kg", shipment.WeightKg).
		Set("status", shipment.Status).
		Set("scheduled_at", shipment.ScheduledAt).
		Set("delivered_at", shipment.DeliveredAt).
		Set("updated_at", shipment.UpdatedAt).
		Where(tenantScoped(shipment.TenantID, shipment.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update shipment sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "update shipment")
}

// Delete removes a shipment owned by tenantID.
func (r *ShipmentRepository) Delete(ctx context.Context, tenantID, id string) error {
	stmt, args, err := r.builder.Delete(shipmentsTable).
		Where(tenantScoped(tenantID, id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete shipment sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "delete shipment")
}

func scanShipment(row rowScanner) (*domain.Shipment, error) {
	var (
		shipment    domain.Shipment
		customerID  sql.NullString
		warehouseID sql.NullString
		routeID     sql.NullString
		scheduledAt sql.NullTime
		deliveredAt sql.NullTime
	)

	if err := row.Scan(
		&shipment.ID,
		&shipment.TenantID,
		&shipment.TrackingNumber,
		&customerID,
		&warehouseID,
		&routeID,
		&shipment.Destination,
		&shipment.WeightKg,
		&shipment.Status,
		&scheduledAt,
		&deliveredAt,
		&shipment.CreatedAt,
		&shipment.UpdatedAt,
	); err != nil {
		return nil, err
	}

	shipment.CustomerID = stringPtr(customerID)
	shipment.OriginWarehouseID = stringPtr(warehouseID)
	shipment.RouteID = stringPtr(routeID)
	shipment.ScheduledAt = timePtr(scheduledAt)
	shipment.DeliveredAt = timePtr(deliveredAt)
	return &shipment, nil
}

var _ port.ShipmentRepository = (*ShipmentRepository)(nil)
