package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const routesTable = "logitrack.routes"

var routeColumns = []string{
	"id",
	"tenant_id",
	"name",
	"origin",
	"destination",
	"distance_km",
	"vehicle_id",
	"driver_id",
	"status",
	"starts_at",
	"created_at",
	"updated_at",
}

// RouteRepository implements port.RouteRepository using PostgreSQL.
type RouteRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRouteRepository wires a PostgreSQL-backed route repository.
func NewRouteRepository(exec pgExecutor) *RouteRepository {
	return &RouteRepository{exec: exec, builder: newBuilder()}
}

// Create inserts a new route row.
func (r *RouteRepository) Create(ctx context.Context, route domain.Route) error {
	stmt, args, err := r.builder.Insert(routesTable).
		Columns(routeColumns...).
		Values(
			route.ID,
			route.TenantID,
			route.Name,
			route.Origin,
			route.Destination,
			route.DistanceKm,
			route.VehicleID,
			route.DriverID,
			route.Status,
			route.StartsAt,
			route.CreatedAt,
			route.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert route sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert route")
	}

	return nil
}

// GetByID retrieves a route owned by tenantID.
func (r *RouteRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Route, error) {
	stmt, args, err := r.builder.Select(routeColumns...).
		From(routesTable).
		Where(tenantScoped(tenantID, id)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select route sql: %w", err)
	}

	route, err := scanRoute(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, translateError(err, "scan route")
	}

	return route, nil
}

// List returns the routes of a tenant ordered by start time.
func (r *RouteRepository) List(ctx context.Context, tenantID string, filter port.ListFilter) ([]domain.Route, error) {
	query := r.builder.Select(routeColumns...).
		From(routesTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("starts_at ASC NULLS LAST", "name ASC")
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"origin": pattern},
			squirrel.ILike{"destination": pattern},
		})
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list routes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, *route)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routes: %w", err)
	}

	return routes, nil
}

// Update persists every mutable route attribute.
func (r *RouteRepository) Update(ctx context.Context, route domain.Route) error {
	stmt, args, err := r.builder.Update(routesTable).
		Set("name", route.Name).
		Set("origin", route.Origin).
		Set("destination", route.Destination).
		Set("distance_km", route.DistanceKm).
		Set("vehicle_id", route.VehicleID).
		Set("driver_id", route.DriverID).
		Set("status", route.Status).
		Set("starts_at", route.StartsAt).
		Set("updated_at", route.UpdatedAt).
		Where(tenantScoped(route.TenantID, route.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update route sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "update route")
}

// Delete removes a route owned by tenantID.
func (r *RouteRepository) Delete(ctx context.Context, tenantID, id string) error {
	stmt, args, err := r.builder.Delete(routesTable).
		Where(tenantScoped(tenantID, id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete route sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "delete route")
}

func scanRoute(row rowScanner) (*domain.Route, error) {
	var (
		route     domain.Route
		vehicleID sql.NullString
		driverID  sql.NullString
		startsAt  sql.NullTime
	)

	if err := row.Scan(
		&route.ID,
		&route.TenantID,
		&route.Name,
		&route.Origin,
		&route.Destination,
		&route.DistanceKm,
		&vehicleID,
		&driverID,
		&route.Status,
		&startsAt,
		&route.CreatedAt,
		&route.UpdatedAt,
	); err != nil {
		return nil, err
	}

	route.VehicleID = stringPtr(vehicleID)
	route.DriverID = stringPtr(driverID)
	route.StartsAt = timePtr(startsAt)
	return &route, nil
}

var _ port.RouteRepository = (*RouteRepository)(nil)
