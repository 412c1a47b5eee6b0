package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T) (*EventPublisher, *fakeAsyncProducer) {
	t.Helper()
	asyncProducer := newFakeAsyncProducer()
	producer := newProducer(asyncProducer, "logitrack", zaptest.NewLogger(t))
	t.Cleanup(func() { _ = producer.Close() })

	publisher := NewEventPublisher(producer, config.AppSettings{
		Name: "logitrack",
		Env:  "test",
	}, zaptest.NewLogger(t))
	return publisher, asyncProducer
}

func receiveEnvelope(t *testing.T, asyncProducer *fakeAsyncProducer) (*sarama.ProducerMessage, map[string]any) {
	t.Helper()
	select {
	case msg := <-asyncProducer.input:
		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}
		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}
		return msg, envelope
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on async producer input channel")
	}
	return nil, nil
}

func TestPublishEntityChanged(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	occurredAt := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	event := domain.EntityChangedEvent{
		EventID:    "event-123",
		TenantID:   "tenant-a",
		Resource:   domain.ResourceVehicle,
		ResourceID: "vehicle-1",
		Action:     domain.EntityCreated,
		ActorID:    "user-1",
		OccurredAt: occurredAt,
		Metadata:   map[string]any{"plate": "34ABC123"},
	}

	if err := publisher.PublishEntityChanged(context.Background(), event); err != nil {
		t.Fatalf("PublishEntityChanged returned error: %v", err)
	}

	msg, envelope := receiveEnvelope(t, asyncProducer)
	if msg.Topic != "logitrack.vehicle.created" {
		t.Fatalf("unexpected topic: %s", msg.Topic)
	}
	key, err := msg.Key.Encode()
	if err != nil {
		t.Fatalf("Key.Encode returned error: %v", err)
	}
	if string(key) != "tenant-a" {
		t.Fatalf("expected message keyed by tenant, got %q", key)
	}

	if got := envelope["event_type"]; got != "vehicle.created" {
		t.Fatalf("unexpected event_type: %v", got)
	}
	if got := envelope["tenant_id"]; got != "tenant-a" {
		t.Fatalf("unexpected tenant_id: %v", got)
	}
	if got := envelope["actor_id"]; got != "user-1" {
		t.Fatalf("unexpected actor_id: %v", got)
	}
	if got := envelope["timestamp"]; got != occurredAt.Format(time.RFC3339Nano) {
		t.Fatalf("unexpected timestamp: %v", got)
	}

	payload, ok := envelope["payload"].(map[string]any)
	if !ok {
		t.Fatalf("payload not a map: %T", envelope["payload"])
	}
	if payload["resource_id"] != "vehicle-1" || payload["action"] != "created" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	metadata, ok := payload["metadata"].(map[string]any)
	if !ok || metadata["plate"] != "34ABC123" {
		t.Fatalf("metadata did not round-trip: %v", payload["metadata"])
	}

	envelopeMetadata, ok := envelope["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("envelope metadata not a map: %T", envelope["metadata"])
	}
	if envelopeMetadata["service"] != "logitrack" {
		t.Fatalf("unexpected metadata service: %v", envelopeMetadata["service"])
	}
	if envelopeMetadata["environment"] != "test" {
		t.Fatalf("unexpected metadata environment: %v", envelopeMetadata["environment"])
	}
	if _, ok := envelopeMetadata["trace_id"]; ok {
		t.Fatalf("trace_id should be absent without a span")
	}
}

func TestPublishEntityChangedCarriesTraceID(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	err := publisher.PublishEntityChanged(ctx, domain.EntityChangedEvent{
		TenantID:   "tenant-a",
		Resource:   domain.ResourceShipment,
		ResourceID: "shipment-1",
		Action:     domain.EntityUpdated,
	})
	if err != nil {
		t.Fatalf("PublishEntityChanged returned error: %v", err)
	}

	_, envelope := receiveEnvelope(t, asyncProducer)
	if envelope["event_id"] == "" {
		t.Fatalf("expected generated event id")
	}
	metadata := envelope["metadata"].(map[string]any)
	if metadata["trace_id"] != traceID.String() {
		t.Fatalf("unexpected trace_id: %v", metadata["trace_id"])
	}
}

func TestPublishAccessDenied(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	event := domain.AccessDeniedEvent{
		EventID:        "evt-001",
		Operation:      "vehicle.get",
		ActorID:        "user-1",
		ActorTenantID:  "tenant-a",
		TargetTenantID: "tenant-b",
		Reason:         "cross_tenant",
		OccurredAt:     time.Date(2025, 11, 18, 8, 30, 0, 0, time.UTC),
	}

	if err := publisher.PublishAccessDenied(context.Background(), event); err != nil {
		t.Fatalf("PublishAccessDenied returned error: %v", err)
	}

	msg, envelope := receiveEnvelope(t, asyncProducer)
	if msg.Topic != "logitrack.security.access_denied" {
		t.Fatalf("unexpected topic: %s", msg.Topic)
	}
	key, _ := msg.Key.Encode()
	if string(key) != "tenant-b" {
		t.Fatalf("expected message keyed by target tenant, got %q", key)
	}

	payload, ok := envelope["payload"].(map[string]any)
	if !ok {
		t.Fatalf("payload not a map: %T", envelope["payload"])
	}
	if payload["operation"] != "vehicle.get" {
		t.Fatalf("unexpected operation: %v", payload["operation"])
	}
	if payload["actor_tenant_id"] != "tenant-a" || payload["target_tenant_id"] != "tenant-b" {
		t.Fatalf("unexpected tenants: %v", payload)
	}
}

func TestPublishHonoursContextCancellation(t *testing.T) {
	asyncProducer := &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage),
		errors: make(chan *sarama.ProducerError, 1),
	}
	producer := newProducer(asyncProducer, "logitrack", zaptest.NewLogger(t))
	t.Cleanup(func() { _ = producer.Close() })
	publisher := NewEventPublisher(producer, config.AppSettings{Name: "logitrack"}, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := publisher.PublishAccessDenied(ctx, domain.AccessDeniedEvent{Operation: "route.get"})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestTopicName(t *testing.T) {
	producer := newProducer(newFakeAsyncProducer(), "logitrack.", zaptest.NewLogger(t))
	t.Cleanup(func() { _ = producer.Close() })

	if got := producer.TopicName("vehicle.created"); got != "logitrack.vehicle.created" {
		t.Fatalf("unexpected topic: %s", got)
	}
	if got := producer.TopicName("logitrack.vehicle.created"); got != "logitrack.vehicle.created" {
		t.Fatalf("prefix applied twice: %s", got)
	}
}
