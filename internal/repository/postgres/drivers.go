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

const driversTable = "logitrack.drivers"

var driverColumns = []string{
	"id",
	"tenant_id",
	"user_id",
	"full_name",
	"license_number",
	"phone",
	"status",
	"vehicle_id",
	"created_at",
	"updated_at",
}

// DriverRepository implements port.DriverRepository using PostgreSQL.
type DriverRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewDriverRepository wires a PostgreSQL-backed driver repository.
func NewDriverRepository(exec pgExecutor) *DriverRepository {
	return &DriverRepository{exec: exec, builder: newBuilder()}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *DriverRepository) WithTx(tx pgx.Tx) *DriverRepository {
	if tx == nil {
		return r
	}
	return &DriverRepository{exec: tx, builder: r.builder}
}

// Create inserts a new driver row.
func (r *DriverRepository) Create(ctx context.Context, driver domain.Driver) error {
	stmt, args, err := r.builder.Insert(driversTable).
		Columns(driverColumns...).
		Values(
			driver.ID,
			driver.TenantID,
			driver.UserID,
			driver.FullName,
			driver.LicenseNumber,
			driver.Phone,
			driver.Status,
			driver.VehicleID,
			driver.CreatedAt,
			driver.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert driver sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert driver")
	}

	return nil
}

// GetByID retrieves a driver owned by tenantID.
func (r *DriverRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Driver, error) {
	return r.get(ctx, tenantID, id, false)
}

// GetForUpdate retrieves a driver and locks the row until the surrounding transaction ends.
func (r *DriverRepository) GetForUpdate(ctx context.Context, tenantID, id string) (*domain.Driver, error) {
	return r.get(ctx, tenantID, id, true)
}

func (r *DriverRepository) get(ctx context.Context, tenantID, id string, lock bool) (*domain.Driver, error) {
	query := r.builder.Select(driverColumns...).
		From(driversTable).
		Where(tenantScoped(tenantID, id)).
		Limit(1)
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select driver sql: %w", err)
	}

	driver, err := scanDriver(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, translateError(err, "scan driver")
	}

	return driver, nil
}

// List returns the drivers of a tenant ordered by name.
func (r *DriverRepository) List(ctx context.Context, tenantID string, filter port.ListFilter) ([]domain.Driver, error) {
	query := r.builder.Select(driverColumns...).
		From(driversTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("full_name ASC")
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"license_number": pattern},
		})
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list drivers sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query drivers: %w", err)
	}
	defer rows.Close()

	drivers := make([]domain.Driver, 0)
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, *driver)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}

	return drivers, nil
}

// Update persists the mutable driver attributes. The vehicle pairing is changed via SetVehicle.
func (r *DriverRepository) Update(ctx context.Context, driver domain.Driver) error {
	stmt, args, err := r.builder.Update(driversTable).
		Set("user_id", driver.UserID).
		Set("full_name", driver.FullName).
		Set("license_number", driver.LicenseNumber).
		Set("phone", driver.Phone).
		Set("status", driver.Status).
		Set("updated_at", driver.UpdatedAt).
		Where(tenantScoped(driver.TenantID, driver.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update driver sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "update driver")
}

// Delete removes a driver owned by tenantID.
func (r *DriverRepository) Delete(ctx context.Context, tenantID, id string) error {
	stmt, args, err := r.builder.Delete(driversTable).
		Where(tenantScoped(tenantID, id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete driver sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "delete driver")
}

// SetVehicle records vehicleID (or nil) as the vehicle of the driver.
func (r *DriverRepository) SetVehicle(ctx context.Context, tenantID, driverID string, vehicleID *string) error {
	stmt, args, err := r.builder.Update(driversTable).
		Set("vehicle_id", vehicleID).
		Set("updated_at", time.Now().UTC()).
		Where(tenantScoped(tenantID, driverID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set driver vehicle sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "set driver vehicle")
}

// ClearVehicle detaches vehicleID from whichever driver of the tenant currently references it.
func (r *DriverRepository) ClearVehicle(ctx context.Context, tenantID, vehicleID string) error {
	stmt, args, err := r.builder.Update(driversTable).
		Set("vehicle_id", nil).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"tenant_id": tenantID, "vehicle_id": vehicleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear driver vehicle sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "clear driver vehicle")
	}

	return nil
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var (
		driver    domain.Driver
		userID    sql.NullString
		phone     sql.NullString
		vehicleID sql.NullString
	)

	if err := row.Scan(
		&driver.ID,
		&driver.TenantID,
		&userID,
		&driver.FullName,
		&driver.LicenseNumber,
		&phone,
		&driver.Status,
		&vehicleID,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	); err != nil {
		return nil, err
	}

	driver.UserID = stringPtr(userID)
	driver.Phone = stringPtr(phone)
	driver.VehicleID = stringPtr(vehicleID)
	return &driver, nil
}

var _ port.DriverRepository = (*DriverRepository)(nil)
