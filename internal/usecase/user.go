package usecase

import (
	"context"
	"strings"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// InviteUserInput adds a member to the actor's tenant.
type InviteUserInput struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName string  `json:"full_name" validate:"required,max=128"`
	RoleID   *string `json:"role_id"`
}

// ChangeUserRoleInput moves a member to another role of the same tenant. A nil
// role leaves the member without access to role-restricted operations.
type ChangeUserRoleInput struct {
	UserID string  `json:"-" validate:"required"`
	RoleID *string `json:"role_id"`
}

// ListUsersInput narrows a member listing.
type ListUsersInput struct {
	Status string `form:"status" json:"status" validate:"omitempty,oneof=active inactive"`
	Search string `form:"q" json:"q"`
	Limit  int    `form:"limit" json:"limit"`
	Offset int    `form:"offset" json:"offset"`
}

// UserService administers the members of a tenant.
type UserService struct {
	controller
	users port.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(deps ControllerDeps, users port.UserRepository) *UserService {
	return &UserService{controller: newController(deps), users: users}
}

// Invite creates an active member of the actor's tenant.
func (s *UserService) Invite(ctx context.Context, actor domain.Principal, input InviteUserInput) (*domain.User, error) {
	op := PolicyUserInvite.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyUserInvite); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}
	roleID := trimmedPtr(input.RoleID)
	if err := s.authorizeReference(ctx, actor, domain.ResourceRole, roleID, PolicyUserInvite); err != nil {
		return nil, err
	}

	now := s.now()
	user := domain.User{
		ID:        s.newID(),
		TenantID:  actor.TenantID,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		FullName:  strings.TrimSpace(input.FullName),
		RoleID:    roleID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, storageError(op, domain.ResourceUser, err)
	}

	s.publishChange(ctx, actor, domain.ResourceUser, user.ID, domain.EntityCreated, nil)
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.User, error) {
	if err := s.authorizeResource(ctx, actor, domain.ResourceUser, id, PolicyUserRead); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, storageError(PolicyUserRead.Name, domain.ResourceUser, err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, actor domain.Principal, input ListUsersInput) ([]domain.User, error) {
	op := PolicyUserList.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyUserList); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, actor.TenantID, listFilter(input.Status, input.Search, input.Limit, input.Offset))
	if err != nil {
		return nil, storageError(op, domain.ResourceUser, err)
	}
	return users, nil
}

// ChangeRole reassigns a member's role. Takes effect on the member's next request.
func (s *UserService) ChangeRole(ctx context.Context, actor domain.Principal, input ChangeUserRoleInput) (*domain.User, error) {
	op := PolicyUserChangeRole.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceUser, input.UserID, PolicyUserChangeRole); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}
	if input.UserID == actor.UserID {
		return nil, invalidInput(op, "user_id", "cannot change your own role")
	}
	roleID := trimmedPtr(input.RoleID)
	if err := s.authorizeReference(ctx, actor, domain.ResourceRole, roleID, PolicyUserChangeRole); err != nil {
		return nil, err
	}

	if err := s.users.UpdateRole(ctx, actor.TenantID, input.UserID, roleID); err != nil {
		return nil, storageError(op, domain.ResourceUser, err)
	}

	user, err := s.users.GetByID(ctx, actor.TenantID, input.UserID)
	if err != nil {
		return nil, storageError(op, domain.ResourceUser, err)
	}

	metadata := map[string]any{}
	if roleID != nil {
		metadata["role_id"] = *roleID
	}
	s.publishChange(ctx, actor, domain.ResourceUser, user.ID, domain.EntityUpdated, metadata)
	return user, nil
}

// Deactivate disables a member. Their credentials stop resolving immediately.
func (s *UserService) Deactivate(ctx context.Context, actor domain.Principal, id string) error {
	op := PolicyUserDeactivate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceUser, id, PolicyUserDeactivate); err != nil {
		return err
	}
	if id == actor.UserID {
		return invalidInput(op, "id", "cannot deactivate yourself")
	}

	if err := s.users.SetActive(ctx, actor.TenantID, id, false); err != nil {
		return storageError(op, domain.ResourceUser, err)
	}

	s.publishChange(ctx, actor, domain.ResourceUser, id, domain.EntityUpdated, map[string]any{"is_active": false})
	return nil
}
