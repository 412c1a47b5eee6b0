package kafka

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, tenantID string, at time.Time, fields ...zap.Field) {
	if at.IsZero() {
		at = time.Now()
	}
	p.logger.Info("stub event published", append([]zap.Field{
		zap.String("event_type", eventType),
		zap.String("tenant_id", tenantID),
		zap.Time("timestamp", at.UTC()),
	}, fields...)...)
}

func (p *StubPublisher) PublishEntityChanged(_ context.Context, event domain.EntityChangedEvent) error {
	p.logEvent(fmt.Sprintf("logitrack.%s.%s", event.Resource, event.Action), event.TenantID, event.OccurredAt,
		zap.String("resource_id", event.ResourceID),
		zap.String("actor_id", event.ActorID),
		zap.Any("metadata", event.Metadata),
	)
	return nil
}

func (p *StubPublisher) PublishAccessDenied(_ context.Context, event domain.AccessDeniedEvent) error {
	p.logEvent("logitrack."+topicAccessDenied, event.TargetTenantID, event.OccurredAt,
		zap.String("operation", event.Operation),
		zap.String("actor_id", event.ActorID),
		zap.String("actor_tenant_id", event.ActorTenantID),
		zap.String("reason", event.Reason),
	)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
