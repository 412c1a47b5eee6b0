package usecase

import (
	"context"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// Access decision outcomes reported to the AccessDecisionRecorder.
const (
	OutcomeAllowed          = "allowed"
	OutcomeUnauthorized     = "unauthorized"
	OutcomeCrossTenant      = "cross_tenant"
	OutcomeInsufficientRole = "insufficient_role"
)

// Guard enforces tenant membership and role policies. It holds no state across
// calls, so identical inputs always yield the identical decision.
type Guard struct {
	logger   *zap.Logger
	recorder port.AccessDecisionRecorder
	events   port.EventPublisher
	now      func() time.Time
}

// NewGuard wires the guard with its audit sinks. recorder and events may be nil.
func NewGuard(logger *zap.Logger, recorder port.AccessDecisionRecorder, events port.EventPublisher) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		logger:   logger,
		recorder: recorder,
		events:   events,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Verify checks, in order, that a principal is present, that it belongs to
// targetTenantID and that its role satisfies the policy.
func (g *Guard) Verify(ctx context.Context, principal *domain.Principal, targetTenantID string, policy Policy) (domain.Principal, error) {
	if principal == nil {
		g.record(policy, OutcomeUnauthorized)
		return domain.Principal{}, unauthorized(policy.Name)
	}

	if targetTenantID == "" || principal.TenantID != targetTenantID {
		g.record(policy, OutcomeCrossTenant)
		g.logger.Warn("cross-tenant access denied",
			zap.String("operation", policy.Name),
			zap.String("user_id", principal.UserID),
			zap.String("actor_tenant_id", principal.TenantID),
			zap.String("target_tenant_id", targetTenantID),
		)
		g.publishDenial(ctx, *principal, targetTenantID, policy)
		return domain.Principal{}, &Error{
			Kind:    KindCrossTenantAccess,
			Op:      policy.Name,
			Message: "resource belongs to another tenant",
		}
	}

	if !policy.Roles.Empty() && !policy.Roles.Contains(principal.Role) {
		g.record(policy, OutcomeInsufficientRole)
		g.logger.Info("role not permitted for operation",
			zap.String("operation", policy.Name),
			zap.String("user_id", principal.UserID),
			zap.String("tenant_id", principal.TenantID),
			zap.String("role", string(principal.Role)),
			zap.Stringer("required_roles", policy.Roles),
		)
		return domain.Principal{}, &Error{
			Kind:     KindInsufficientRole,
			Op:       policy.Name,
			Message:  "role not permitted for this operation",
			Required: policy.Roles,
		}
	}

	g.record(policy, OutcomeAllowed)
	return *principal, nil
}

func (g *Guard) record(policy Policy, outcome string) {
	if g.recorder != nil {
		g.recorder.RecordAccessDecision(policy.Name, outcome)
	}
}

func (g *Guard) publishDenial(ctx context.Context, principal domain.Principal, targetTenantID string, policy Policy) {
	if g.events == nil {
		return
	}

	event := domain.AccessDeniedEvent{
		EventID:        uuid.NewString(),
		Operation:      policy.Name,
		ActorID:        principal.UserID,
		ActorTenantID:  principal.TenantID,
		TargetTenantID: targetTenantID,
		Reason:         string(KindCrossTenantAccess),
		OccurredAt:     g.now(),
	}
	if err := g.events.PublishAccessDenied(ctx, event); err != nil {
		g.logger.Warn("publish access denied event failed", zap.String("operation", policy.Name), zap.Error(err))
	}
}
