package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	// Raised when an id is not a well formed uuid; no such row can exist.
	pgInvalidTextRepresentation = "22P02"
)

// constraintFields maps schema constraint names to the offending input field.
var constraintFields = map[string]string{
	"vehicles_tenant_plate_key":         "plate_number",
	"drivers_tenant_license_key":        "license_number",
	"shipments_tenant_tracking_key":     "tracking_number",
	"warehouses_tenant_code_key":        "code",
	"inventory_items_warehouse_sku_key": "sku",
	"customers_tenant_email_key":        "email",
	"roles_tenant_name_key":             "name",
	"users_tenant_email_key":            "email",
	"users_role_fkey":                   "role_id",
	"shipments_customer_fkey":           "customer_id",
	"shipments_warehouse_fkey":          "origin_warehouse_id",
	"shipments_route_fkey":              "route_id",
	"routes_vehicle_fkey":               "vehicle_id",
	"routes_driver_fkey":                "driver_id",
	"inventory_items_warehouse_fkey":    "warehouse_id",
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// translateError converts driver errors into repository errors and wraps everything else.
func translateError(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidTextRepresentation:
			return repository.ErrNotFound
		case pgUniqueViolation, pgForeignKeyViolation:
			return &repository.ConflictError{
				Constraint: pgErr.ConstraintName,
				Field:      constraintFields[pgErr.ConstraintName],
				Err:        err,
			}
		}
	}

	return fmt.Errorf("%s: %w", action, err)
}

// execAffectingOne runs a write that must touch exactly one tenant scoped row.
func execAffectingOne(ctx context.Context, exec pgExecutor, stmt string, args []any, action string) error {
	res, err := exec.Exec(ctx, stmt, args...)
	if err != nil {
		return translateError(err, action)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func applyPaging(query squirrel.SelectBuilder, limit, offset int) squirrel.SelectBuilder {
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}
	return query
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	value := ns.String
	return &value
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	value := nt.Time
	return &value
}

type rowScanner interface {
	Scan(dest ...any) error
}

// tenantScoped returns the predicate every tenant scoped statement must carry.
func tenantScoped(tenantID, id string) squirrel.Eq {
	return squirrel.Eq{"tenant_id": tenantID, "id": id}
}
