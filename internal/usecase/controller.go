package usecase

import (
	"context"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// ControllerDeps are the collaborators shared by every entity controller.
type ControllerDeps struct {
	Guard     *Guard
	Ownership port.OwnershipLookup
	Events    port.EventPublisher
	Logger    *zap.Logger
}

// controller implements the resolve-target, guard, execute, report sequence
// shared by all entity services.
type controller struct {
	guard     *Guard
	ownership port.OwnershipLookup
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

func newController(deps ControllerDeps) controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return controller{
		guard:     deps.Guard,
		ownership: deps.Ownership,
		events:    deps.Events,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// authorizeOwnTenant guards operations whose target is the actor's own tenant:
// creates, lists and dashboards.
func (c controller) authorizeOwnTenant(ctx context.Context, actor domain.Principal, policy Policy) error {
	_, err := c.guard.Verify(ctx, &actor, actor.TenantID, policy)
	return err
}

// authorizeResource resolves the stored tenant of an existing resource and guards it.
func (c controller) authorizeResource(ctx context.Context, actor domain.Principal, kind domain.ResourceKind, id string, policy Policy) error {
	if id == "" {
		return invalidInput(policy.Name, "id", "id is required")
	}

	tenantID, err := c.ownership.TenantOf(ctx, kind, id)
	if err != nil {
		return storageError(policy.Name, kind, err)
	}

	_, err = c.guard.Verify(ctx, &actor, tenantID, policy)
	return err
}

// authorizeReference guards an optional reference to another resource so that
// links can never point across tenants.
func (c controller) authorizeReference(ctx context.Context, actor domain.Principal, kind domain.ResourceKind, id *string, policy Policy) error {
	if id == nil {
		return nil
	}
	return c.authorizeResource(ctx, actor, kind, *id, policy)
}

func (c controller) publishChange(ctx context.Context, actor domain.Principal, kind domain.ResourceKind, id string, action domain.EntityAction, metadata map[string]any) {
	if c.events == nil {
		return
	}

	event := domain.EntityChangedEvent{
		EventID:    c.newID(),
		TenantID:   actor.TenantID,
		Resource:   kind,
		ResourceID: id,
		Action:     action,
		ActorID:    actor.UserID,
		OccurredAt: c.now(),
		Metadata:   metadata,
	}
	if err := c.events.PublishEntityChanged(ctx, event); err != nil {
		c.logger.Warn("publish entity changed event failed",
			zap.String("resource", string(kind)),
			zap.String("resource_id", id),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}
}

func listFilter(status, search string, limit, offset int) port.ListFilter {
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return port.ListFilter{Status: status, Search: search, Limit: limit, Offset: offset}
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)
