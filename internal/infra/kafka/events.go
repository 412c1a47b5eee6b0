package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/config"
)

const (
	schemaVersion = "1.0"

	topicAccessDenied = "security.access_denied"
)

// EventPublisher implements port.EventPublisher on Kafka. Messages are keyed by
// tenant so one tenant's events stay ordered within a partition.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	TenantID  string            `json:"tenant_id,omitempty"`
	ActorID   string            `json:"actor_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, envelope eventEnvelope) error {
	if envelope.Timestamp.IsZero() {
		envelope.Timestamp = time.Now()
	}
	envelope.Timestamp = envelope.Timestamp.UTC()
	if envelope.EventID == "" {
		envelope.EventID = uuid.NewString()
	}
	envelope.Version = schemaVersion
	envelope.Metadata = map[string]string{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		envelope.Metadata["trace_id"] = sc.TraceID().String()
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	topic := p.producer.TopicName(envelope.EventType)
	message := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(envelope.EventType)},
			{Key: []byte("schema_version"), Value: []byte(schemaVersion)},
		},
	}
	if envelope.TenantID != "" {
		message.Key = sarama.StringEncoder(envelope.TenantID)
	}

	select {
	case p.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueue %s: %w", topic, ctx.Err())
	}
}

// PublishEntityChanged publishes logitrack.<resource>.<action> events.
func (p *EventPublisher) PublishEntityChanged(ctx context.Context, event domain.EntityChangedEvent) error {
	payload := struct {
		Resource   domain.ResourceKind `json:"resource"`
		ResourceID string              `json:"resource_id"`
		Action     domain.EntityAction `json:"action"`
		Metadata   map[string]any      `json:"metadata,omitempty"`
	}{
		Resource:   event.Resource,
		ResourceID: event.ResourceID,
		Action:     event.Action,
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, eventEnvelope{
		EventID:   event.EventID,
		EventType: fmt.Sprintf("%s.%s", event.Resource, event.Action),
		TenantID:  event.TenantID,
		ActorID:   event.ActorID,
		Timestamp: event.OccurredAt,
		Payload:   payload,
	})
}

// PublishAccessDenied publishes logitrack.security.access_denied events. The
// message is keyed by the target tenant, whose operators own the audit trail.
func (p *EventPublisher) PublishAccessDenied(ctx context.Context, event domain.AccessDeniedEvent) error {
	payload := struct {
		Operation      string `json:"operation"`
		ActorTenantID  string `json:"actor_tenant_id"`
		TargetTenantID string `json:"target_tenant_id"`
		Reason         string `json:"reason"`
	}{
		Operation:      event.Operation,
		ActorTenantID:  event.ActorTenantID,
		TargetTenantID: event.TargetTenantID,
		Reason:         event.Reason,
	}

	return p.publish(ctx, eventEnvelope{
		EventID:   event.EventID,
		EventType: topicAccessDenied,
		TenantID:  event.TargetTenantID,
		ActorID:   event.ActorID,
		Timestamp: event.OccurredAt,
		Payload:   payload,
	})
}

var _ port.EventPublisher = (*EventPublisher)(nil)
