package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const (
	rolesTable           = "logitrack.roles"
	rolePermissionsTable = "logitrack.role_permissions"
)

// RoleRepository implements role persistence operations.
type RoleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a PostgreSQL-backed role repository.
func NewRoleRepository(exec pgExecutor) *RoleRepository {
	return &RoleRepository{exec: exec, builder: newBuilder()}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *RoleRepository) WithTx(tx pgx.Tx) *RoleRepository {
	if tx == nil {
		return r
	}
	return &RoleRepository{exec: tx, builder: r.builder}
}

// Create inserts a new role. Permissions are granted separately.
func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Insert(rolesTable).
		Columns("id", "tenant_id", "name", "kind", "description").
		Values(role.ID, role.TenantID, role.Name, role.Kind, role.Description).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert role")
	}

	return nil
}

func (r *RoleRepository) selectRoles() squirrel.SelectBuilder {
	return r.builder.Select(
		"r.id",
		"r.tenant_id",
		"r.name",
		"r.kind",
		"r.description",
		"COALESCE(array_agg(rp.permission ORDER BY rp.permission) FILTER (WHERE rp.permission IS NOT NULL), '{}')",
	).
		From(rolesTable + " r").
		LeftJoin(rolePermissionsTable + " rp ON rp.role_id = r.id").
		GroupBy("r.id")
}

// GetByID retrieves a role of the tenant together with its permissions.
func (r *RoleRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Role, error) {
	stmt, args, err := r.selectRoles().
		Where(squirrel.Eq{"r.tenant_id": tenantID, "r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role by id sql: %w", err)
	}

	role, err := scanRole(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, translateError(err, "scan role by id")
	}

	return role, nil
}

// List retrieves all roles of the tenant sorted by name.
func (r *RoleRepository) List(ctx context.Context, tenantID string) ([]domain.Role, error) {
	stmt, args, err := r.selectRoles().
		Where(squirrel.Eq{"r.tenant_id": tenantID}).
		OrderBy("r.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, *role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

// Update modifies an existing role of the tenant.
func (r *RoleRepository) Update(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Update(rolesTable).
		Set("name", role.Name).
		Set("kind", role.Kind).
		Set("description", role.Description).
		Where(tenantScoped(role.TenantID, role.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "update role")
}

// Delete removes a role of the tenant. role_permissions cascade; users referencing it block the delete.
func (r *RoleRepository) Delete(ctx context.Context, tenantID, id string) error {
	stmt, args, err := r.builder.Delete(rolesTable).
		Where(tenantScoped(tenantID, id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete role sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "delete role")
}

// GrantPermissions links permissions to the role and returns the number of new grants.
// Rows are only produced when the role belongs to tenantID.
func (r *RoleRepository) GrantPermissions(ctx context.Context, tenantID, roleID string, permissions []string) (int, error) {
	if len(permissions) == 0 {
		return 0, nil
	}

	// Nested selects keep '?' placeholders; the outer statement numbers them.
	source := squirrel.Select("id").
		Column(squirrel.Expr("unnest(?::text[])", permissions)).
		From(rolesTable).
		Where(tenantScoped(tenantID, roleID))

	stmt, args, err := r.builder.Insert(rolePermissionsTable).
		Columns("role_id", "permission").
		Select(source).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build grant role permissions sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, translateError(err, "grant role permissions")
	}

	return int(res.RowsAffected()), nil
}

// RevokePermissions removes permissions from the role and returns the number of rows deleted.
func (r *RoleRepository) RevokePermissions(ctx context.Context, tenantID, roleID string, permissions []string) (int, error) {
	if len(permissions) == 0 {
		return 0, nil
	}

	owned := squirrel.Select("id").
		From(rolesTable).
		Where(tenantScoped(tenantID, roleID))
	ownedSQL, ownedArgs, err := owned.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build revoke role ownership sql: %w", err)
	}

	stmt, args, err := r.builder.Delete(rolePermissionsTable).
		Where(squirrel.Eq{"permission": permissions}).
		Where(squirrel.Expr("role_id IN ("+ownedSQL+")", ownedArgs...)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build revoke role permissions sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("revoke role permissions: %w", err)
	}

	return int(res.RowsAffected()), nil
}

func scanRole(row rowScanner) (*domain.Role, error) {
	var (
		role        domain.Role
		kind        string
		description sql.NullString
	)

	if err := row.Scan(
		&role.ID,
		&role.TenantID,
		&role.Name,
		&kind,
		&description,
		&role.Permissions,
	); err != nil {
		return nil, err
	}

	parsed, err := storedRoleKind(kind)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", role.ID, err)
	}
	role.Kind = parsed
	role.Description = stringPtr(description)
	return &role, nil
}

// storedRoleKind keeps rows read back from storage inside the closed role set.
func storedRoleKind(value string) (domain.RoleKind, error) {
	kind, err := domain.ParseRoleKind(value)
	if err != nil {
		return domain.RoleNone, err
	}
	if !kind.Valid() {
		return domain.RoleNone, fmt.Errorf("unknown role kind %q", value)
	}
	return kind, nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
