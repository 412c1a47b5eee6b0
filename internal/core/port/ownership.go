package port

import (
	"context"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
)

// OwnershipLookup resolves the stored tenant of a resource with a projection-only query.
// Implementations return repository.ErrNotFound when the resource does not exist.
type OwnershipLookup interface {
	TenantOf(ctx context.Context, kind domain.ResourceKind, id string) (string, error)
}

// PrincipalLookup loads the current tenant and role of a credential subject.
type PrincipalLookup interface {
	GetPrincipal(ctx context.Context, userID string) (*domain.Principal, error)
}
