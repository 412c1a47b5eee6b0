package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// CreateRoleInput defines a tenant role and its initial permissions.
type CreateRoleInput struct {
	Name        string   `json:"name" validate:"required,max=64"`
	Kind        string   `json:"kind" validate:"required"`
	Description *string  `json:"description" validate:"omitempty,max=256"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,required,max=64"`
}

// UpdateRoleInput lists the role attributes an update may change.
type UpdateRoleInput struct {
	ID          string  `json:"-" validate:"required"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=64"`
	Kind        *string `json:"kind" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,max=256"`
}

// RolePermissionsInput grants or revokes permissions on a role.
type RolePermissionsInput struct {
	RoleID      string   `json:"-" validate:"required"`
	Permissions []string `json:"permissions" validate:"required,min=1,dive,required,max=64"`
}

// RoleService administers the roles of a tenant.
type RoleService struct {
	controller
	roles port.RoleRepository
	uow   port.UnitOfWork
}

// NewRoleService constructs a RoleService.
func NewRoleService(deps ControllerDeps, roles port.RoleRepository, uow port.UnitOfWork) *RoleService {
	return &RoleService{controller: newController(deps), roles: roles, uow: uow}
}

// Create defines a role and grants its permissions in one transaction.
func (s *RoleService) Create(ctx context.Context, actor domain.Principal, input CreateRoleInput) (*domain.Role, error) {
	op := PolicyRoleCreate.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyRoleCreate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	kind, err := parseAssignableKind(op, input.Kind)
	if err != nil {
		return nil, err
	}

	role := domain.Role{
		ID:          s.newID(),
		TenantID:    actor.TenantID,
		Name:        strings.TrimSpace(input.Name),
		Kind:        kind,
		Description: trimmedPtr(input.Description),
		Permissions: normalizePermissions(input.Permissions),
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos port.TxRepositories) error {
		if err := repos.Roles.Create(ctx, role); err != nil {
			return storageError(op, domain.ResourceRole, err)
		}
		if len(role.Permissions) == 0 {
			return nil
		}
		if _, err := repos.Roles.GrantPermissions(ctx, role.TenantID, role.ID, role.Permissions); err != nil {
			return storageError(op, domain.ResourceRole, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishChange(ctx, actor, domain.ResourceRole, role.ID, domain.EntityCreated, map[string]any{"kind": string(role.Kind)})
	return &role, nil
}

func (s *RoleService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.Role, error) {
	if err := s.authorizeResource(ctx, actor, domain.ResourceRole, id, PolicyRoleRead); err != nil {
		return nil, err
	}

	role, err := s.roles.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, storageError(PolicyRoleRead.Name, domain.ResourceRole, err)
	}
	return role, nil
}

func (s *RoleService) List(ctx context.Context, actor domain.Principal) ([]domain.Role, error) {
	op := PolicyRoleList.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyRoleList); err != nil {
		return nil, err
	}

	roles, err := s.roles.List(ctx, actor.TenantID)
	if err != nil {
		return nil, storageError(op, domain.ResourceRole, err)
	}
	return roles, nil
}

// Update renames or re-kinds a role. Members pick up the change on their next request.
func (s *RoleService) Update(ctx context.Context, actor domain.Principal, input UpdateRoleInput) (*domain.Role, error) {
	op := PolicyRoleUpdate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceRole, input.ID, PolicyRoleUpdate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	role, err := s.roles.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceRole, err)
	}

	if input.Name != nil {
		role.Name = strings.TrimSpace(*input.Name)
	}
	if input.Kind != nil {
		kind, err := parseAssignableKind(op, *input.Kind)
		if err != nil {
			return nil, err
		}
		if kind != domain.RoleAdmin && actor.RoleID != nil && *actor.RoleID == role.ID {
			return nil, invalidInput(op, "kind", "cannot demote the role you are acting with")
		}
		role.Kind = kind
	}
	if input.Description != nil {
		role.Description = trimmedPtr(input.Description)
	}

	if err := s.roles.Update(ctx, *role); err != nil {
		return nil, storageError(op, domain.ResourceRole, err)
	}

	s.publishChange(ctx, actor, domain.ResourceRole, role.ID, domain.EntityUpdated, nil)
	return role, nil
}

// Delete removes a role. Roles still assigned to users are a conflict.
func (s *RoleService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	op := PolicyRoleDelete.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceRole, id, PolicyRoleDelete); err != nil {
		return err
	}
	if actor.RoleID != nil && *actor.RoleID == id {
		return invalidInput(op, "id", "cannot delete the role you are acting with")
	}

	if err := s.roles.Delete(ctx, actor.TenantID, id); err != nil {
		return storageError(op, domain.ResourceRole, err)
	}

	s.publishChange(ctx, actor, domain.ResourceRole, id, domain.EntityDeleted, nil)
	return nil
}

// GrantPermissions adds permissions to a role. Already granted entries are ignored.
func (s *RoleService) GrantPermissions(ctx context.Context, actor domain.Principal, input RolePermissionsInput) (*domain.Role, error) {
	return s.changePermissions(ctx, actor, input, PolicyRoleGrant, port.RoleRepository.GrantPermissions)
}

// RevokePermissions removes permissions from a role. Missing entries are ignored.
func (s *RoleService) RevokePermissions(ctx context.Context, actor domain.Principal, input RolePermissionsInput) (*domain.Role, error) {
	return s.changePermissions(ctx, actor, input, PolicyRoleRevoke, port.RoleRepository.RevokePermissions)
}

type permissionChange func(repo port.RoleRepository, ctx context.Context, tenantID, roleID string, permissions []string) (int, error)

func (s *RoleService) changePermissions(ctx context.Context, actor domain.Principal, input RolePermissionsInput, policy Policy, apply permissionChange) (*domain.Role, error) {
	op := policy.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceRole, input.RoleID, policy); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	changed, err := apply(s.roles, ctx, actor.TenantID, input.RoleID, normalizePermissions(input.Permissions))
	if err != nil {
		return nil, storageError(op, domain.ResourceRole, err)
	}

	role, err := s.roles.GetByID(ctx, actor.TenantID, input.RoleID)
	if err != nil {
		return nil, storageError(op, domain.ResourceRole, err)
	}

	if changed > 0 {
		s.publishChange(ctx, actor, domain.ResourceRole, role.ID, domain.EntityUpdated, map[string]any{
			"policy":  op,
			"changed": changed,
		})
	}
	return role, nil
}

func parseAssignableKind(op, value string) (domain.RoleKind, error) {
	kind, err := domain.ParseRoleKind(value)
	if err != nil || !kind.Valid() {
		return domain.RoleNone, invalidInput(op, "kind", "kind must be one of: admin manager dispatcher warehouse driver viewer")
	}
	return kind, nil
}

// normalizePermissions lower-cases, trims and de-duplicates permission names.
func normalizePermissions(permissions []string) []string {
	seen := make(map[string]struct{}, len(permissions))
	out := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		permission = strings.ToLower(strings.TrimSpace(permission))
		if permission == "" {
			continue
		}
		if _, ok := seen[permission]; ok {
			continue
		}
		seen[permission] = struct{}{}
		out = append(out, permission)
	}
	sort.Strings(out)
	return out
}
