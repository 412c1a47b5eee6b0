package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const vehiclesTable = "logitrack.vehicles"

var vehicleColumns = []string{
	"id",
	"tenant_id",
	"plate_number",
	"make",
	"model",
	"year",
	"type",
	"status",
	"capacity_kg",
	"driver_id",
	"created_at",
	"updated_at",
}

// VehicleRepository implements port.VehicleRepository using PostgreSQL.
type VehicleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewVehicleRepository wires a PostgreSQL-backed vehicle repository.
func NewVehicleRepository(exec pgExecutor) *VehicleRepository {
	return &VehicleRepository{exec: exec, builder: newBuilder()}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *VehicleRepository) WithTx(tx pgx.Tx) *VehicleRepository {
	if tx == nil {
		return r
	}
	return &VehicleRepository{exec: tx, builder: r.builder}
}

// Create inserts a new vehicle row.
func (r *VehicleRepository) Create(ctx context.Context, vehicle domain.Vehicle) error {
	stmt, args, err := r.builder.Insert(vehiclesTable).
		Columns(vehicleColumns...).
		Values(
			vehicle.ID,
			vehicle.TenantID,
			vehicle.PlateNumber,
			vehicle.Make,
			vehicle.Model,
			vehicle.Year,
			vehicle.Type,
			vehicle.Status,
			vehicle.CapacityKg,
			vehicle.DriverID,
			vehicle.CreatedAt,
			vehicle.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert vehicle sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert vehicle")
	}

	return nil
}

// GetByID retrieves a vehicle owned by tenantID.
func (r *VehicleRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Vehicle, error) {
	return r.get(ctx, tenantID, id, false)
}

// GetForUpdate retrieves a vehicle and locks the row until the surrounding transaction ends.
func (r *VehicleRepository) GetForUpdate(ctx context.Context, tenantID, id string) (*domain.Vehicle, error) {
	return r.get(ctx, tenantID, id, true)
}

func (r *VehicleRepository) get(ctx context.Context, tenantID, id string, lock bool) (*domain.Vehicle, error) {
	query := r.builder.Select(vehicleColumns...).
		From(vehiclesTable).
		Where(tenantScoped(tenantID, id)).
		Limit(1)
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select vehicle sql: %w", err)
	}

	vehicle, err := scanVehicle(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, translateError(err, "scan vehicle")
	}

	return vehicle, nil
}

// List returns the vehicles of a tenant ordered by plate number.
func (r *VehicleRepository) List(ctx context.Context, tenantID string, filter port.ListFilter) ([]domain.Vehicle, error) {
	query := r.builder.Select(vehicleColumns...).
		From(vehiclesTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("plate_number ASC")
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"plate_number": pattern},
			squirrel.ILike{"make": pattern},
			squirrel.ILike{"model": pattern},
		})
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list vehicles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0)
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, *vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", err)
	}

	return vehicles, nil
}

// Update persists the mutable vehicle attributes. The driver pairing is changed via SetDriver.
func (r *VehicleRepository) Update(ctx context.Context, vehicle domain.Vehicle) error {
	stmt, args, err := r.builder.Update(vehiclesTable).
		Set("plate_number", vehicle.PlateNumber).
		Set("make", vehicle.Make).
		Set("model", vehicle.Model).
		Set("year", vehicle.Year).
		Set("type", vehicle.Type).
		Set("status", vehicle.Status).
		Set("capacity_kg", vehicle.CapacityKg).
		Set("updated_at", vehicle.UpdatedAt).
		Where(tenantScoped(vehicle.TenantID, vehicle.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update vehicle sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "update vehicle")
}

// Delete removes a vehicle owned by tenantID.
func (r *VehicleRepository) Delete(ctx context.Context, tenantID, id string) error {
	stmt, args, err := r.builder.Delete(vehiclesTable).
		Where(tenantScoped(tenantID, id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete vehicle sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "delete vehicle")
}

// SetDriver records driverID (or nil) as the driver of the vehicle.
func (r *VehicleRepository) SetDriver(ctx context.Context, tenantID, vehicleID string, driverID *string) error {
	stmt, args, err := r.builder.Update(vehiclesTable).
		Set("driver_id", driverID).
		Set("updated_at", time.Now().UTC()).
		Where(tenantScoped(tenantID, vehicleID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set vehicle driver sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "set vehicle driver")
}

// ClearDriver detaches driverID from whichever vehicle of the tenant currently references it.
func (r *VehicleRepository) ClearDriver(ctx context.Context, tenantID, driverID string) error {
	stmt, args, err := r.builder.Update(vehiclesTable).
		Set("driver_id", nil).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"tenant_id": tenantID, "driver_id": driverID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear vehicle driver sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "clear vehicle driver")
	}

	return nil
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var (
		vehicle  domain.Vehicle
		driverID sql.NullString
	)

	if err := row.Scan(
		&vehicle.ID,
		&vehicle.TenantID,
		&vehicle.PlateNumber,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.Year,
		&vehicle.Type,
		&vehicle.Status,
		&vehicle.CapacityKg,
		&driverID,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	); err != nil {
		return nil, err
	}

	vehicle.DriverID = stringPtr(driverID)
	return &vehicle, nil
}

var _ port.VehicleRepository = (*VehicleRepository)(nil)
