package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const customersTable = "logitrack.customers"

var customerColumns = []string{
	"id",
	"tenant_id",
	"name",
	"email",
	"phone",
	"address",
	"created_at",
	"updated_at",
}

// CustomerRepository implements port.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCustomerRepository wires a PostgreSQL-backed customer repository.
func NewCustomerRepository(exec pgExecutor) *CustomerRepository {
	return &CustomerRepository{exec: exec, builder: newBuilder()}
}

// Create inserts a new customer row.
func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) error {
	stmt, args, err := r.builder.Insert(customersTable).
		Columns(customerColumns...).
		Values(
			customer.ID,
			customer.TenantID,
			customer.Name,
			customer.Email,
			customer.Phone,
			customer.Address,
			customer.CreatedAt,
			customer.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert customer sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert customer")
	}

	return nil
}

// GetByID retrieves a customer owned by tenantID.
func (r *CustomerRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	stmt, args, err := r.builder.Select(customerColumns...).
		From(customersTable).
		Where(tenantScoped(tenantID, id)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select customer sql: %w", err)
	}

	customer, err := scanCustomer(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, translateError(err, "scan customer")
	}

	return customer, nil
}

// List returns the customers of a tenant ordered by name.
func (r *CustomerRepository) List(ctx context.Context, tenantID string, filter port.ListFilter) ([]domain.Customer, error) {
	query := r.builder.Select(customerColumns...).
		From(customersTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("name ASC")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list customers sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	return customers, nil
}

// Update persists the mutable customer attributes.
func (r *CustomerRepository) Update(ctx context.Context, customer domain.Customer) error {
	stmt, args, err := r.builder.Update(customersTable).
		Set("name", customer.Name).
		Set("email", customer.Email).
		Set("phone", customer.Phone).
		Set("address", customer.Address).
		Set("updated_at", customer.UpdatedAt).
		Where(tenantScoped(customer.TenantID, customer.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update customer sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "update customer")
}

// Delete removes a customer owned by tenantID.
func (r *CustomerRepository) Delete(ctx context.Context, tenantID, id string) error {
	stmt, args, err := r.builder.Delete(customersTable).
		Where(tenantScoped(tenantID, id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete customer sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "delete customer")
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		customer domain.Customer
		phone    sql.NullString
		address  sql.NullString
	)

	if err := row.Scan(
		&customer.ID,
		&customer.TenantID,
		&customer.Name,
		&customer.Email,
		&phone,
		&address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}

	customer.Phone = stringPtr(phone)
	customer.Address = stringPtr(address)
	return &customer, nil
}

var _ port.CustomerRepository = (*CustomerRepository)(nil)
