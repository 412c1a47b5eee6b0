package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const usersTable = "logitrack.users"

var userColumns = []string{
	"id",
	"tenant_id",
	"email",
	"full_name",
	"role_id",
	"is_active",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository and port.PrincipalLookup using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{exec: exec, builder: newBuilder()}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Insert(usersTable).
		Columns(userColumns...).
		Values(
			user.ID,
			user.TenantID,
			user.Email,
			user.FullName,
			user.RoleID,
			user.IsActive,
			user.CreatedAt,
			user.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert user")
	}

	return nil
}

// GetByID retrieves a member of tenantID.
func (r *UserRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From(usersTable).
		Where(tenantScoped(tenantID, id)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	user, err := scanUser(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, translateError(err, "scan user")
	}

	return user, nil
}

// List returns the members of a tenant ordered by name.
func (r *UserRepository) List(ctx context.Context, tenantID string, filter port.ListFilter) ([]domain.User, error) {
	query := r.builder.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("full_name ASC")
	switch filter.Status {
	case "active":
		query = query.Where(squirrel.Eq{"is_active": true})
	case "inactive":
		query = query.Where(squirrel.Eq{"is_active": false})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// UpdateRole points the user at roleID, or clears the role when roleID is nil.
func (r *UserRepository) UpdateRole(ctx context.Context, tenantID, userID string, roleID *string) error {
	stmt, args, err := r.builder.Update(usersTable).
		Set("role_id", roleID).
		Set("updated_at", time.Now().UTC()).
		Where(tenantScoped(tenantID, userID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user role sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "update user role")
}

// SetActive toggles whether the user may act in the system.
func (r *UserRepository) SetActive(ctx context.Context, tenantID, userID string, active bool) error {
	stmt, args, err := r.builder.Update(usersTable).
		Set("is_active", active).
		Set("updated_at", time.Now().UTC()).
		Where(tenantScoped(tenantID, userID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set user active sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "set user active")
}

// GetPrincipal resolves the acting identity of an active user. The role kind is
// read from the role row so that role changes take effect on the next request.
func (r *UserRepository) GetPrincipal(ctx context.Context, userID string) (*domain.Principal, error) {
	stmt, args, err := r.builder.Select("u.id", "u.tenant_id", "u.role_id", "r.kind").
		From(usersTable + " u").
		LeftJoin(rolesTable + " r ON r.id = u.role_id AND r.tenant_id = u.tenant_id").
		Where(squirrel.Eq{"u.id": userID, "u.is_active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select principal sql: %w", err)
	}

	var (
		principal domain.Principal
		roleID    sql.NullString
		kind      sql.NullString
	)

	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&principal.UserID,
		&principal.TenantID,
		&roleID,
		&kind,
	); err != nil {
		return nil, translateError(err, "scan principal")
	}

	principal.RoleID = stringPtr(roleID)
	if kind.Valid {
		role, err := storedRoleKind(kind.String)
		if err != nil {
			return nil, fmt.Errorf("principal %s: %w", userID, err)
		}
		principal.Role = role
	}

	return &principal, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user   domain.User
		roleID sql.NullString
	)

	if err := row.Scan(
		&user.ID,
		&user.TenantID,
		&user.Email,
		&user.FullName,
		&roleID,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	user.RoleID = stringPtr(roleID)
	return &user, nil
}

var (
	_ port.UserRepository  = (*UserRepository)(nil)
	_ port.PrincipalLookup = (*UserRepository)(nil)
)
