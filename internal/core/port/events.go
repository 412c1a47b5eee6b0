package port

import (
	"context"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishEntityChanged(ctx context.Context, event domain.EntityChangedEvent) error
	PublishAccessDenied(ctx context.Context, event domain.AccessDeniedEvent) error
}
