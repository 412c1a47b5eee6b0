package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/config"
)

// TopicCredentialRevoked carries revocations issued by the credential issuer.
const TopicCredentialRevoked = "security.credential_revoked"

var errStore = errors.New("revocation store")

// CredentialRevocationConsumerOptions controls lag monitoring.
type CredentialRevocationConsumerOptions struct {
	MaxEventLag time.Duration
}

// CredentialRevocationConsumer copies revocation events into the revocation
// store consulted by the session resolver.
type CredentialRevocationConsumer struct {
	store       port.CredentialRevocationStore
	logger      *zap.Logger
	maxEventLag time.Duration
	now         func() time.Time
}

func NewCredentialRevocationConsumer(store port.CredentialRevocationStore, logger *zap.Logger, opts CredentialRevocationConsumerOptions) *CredentialRevocationConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialRevocationConsumer{
		store:       store,
		logger:      logger,
		maxEventLag: opts.MaxEventLag,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the consumer clock for deterministic testing.
func (c *CredentialRevocationConsumer) WithClock(clock func() time.Time) *CredentialRevocationConsumer {
	if clock != nil {
		c.now = clock
	}
	return c
}

// HandleMessage decodes a Kafka message prior to processing.
func (c *CredentialRevocationConsumer) HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	if msg == nil {
		return errors.New("message is nil")
	}

	var envelope struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return fmt.Errorf("decode credential revoked envelope: %w", err)
	}

	raw := []byte(envelope.Payload)
	if len(raw) == 0 {
		// bare event without an envelope
		raw = msg.Value
	}

	var event domain.CredentialRevokedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return fmt.Errorf("decode credential revoked event: %w", err)
	}

	return c.HandleEvent(ctx, event)
}

// HandleEvent marks the credential revoked until it would have expired anyway.
func (c *CredentialRevocationConsumer) HandleEvent(ctx context.Context, event domain.CredentialRevokedEvent) error {
	if event.TokenID == "" {
		return errors.New("credential revoked event without token id")
	}

	now := c.now()
	if !event.RevokedAt.IsZero() {
		lag := max(now.Sub(event.RevokedAt), 0)
		if c.maxEventLag > 0 && lag > c.maxEventLag {
			c.logger.Warn("credential revocation event lag exceeds threshold",
				zap.Duration("lag", lag),
				zap.Duration("threshold", c.maxEventLag),
				zap.String("token_id", event.TokenID),
			)
		}
	}

	var ttl time.Duration
	if !event.ExpiresAt.IsZero() {
		ttl = event.ExpiresAt.Sub(now)
		if ttl <= 0 {
			c.logger.Debug("skip expired revocation", zap.String("token_id", event.TokenID))
			return nil
		}
	}

	reason := event.Reason
	if reason == "" {
		reason = "revoked"
	}
	if err := c.store.MarkRevoked(ctx, event.TokenID, reason, ttl); err != nil {
		return fmt.Errorf("mark credential revoked: %w: %w", errStore, err)
	}

	c.logger.Info("credential revoked",
		zap.String("token_id", event.TokenID),
		zap.String("subject_id", event.SubjectID),
		zap.String("reason", reason),
	)
	return nil
}

// Setup implements sarama.ConsumerGroupHandler.
func (c *CredentialRevocationConsumer) Setup(sarama.ConsumerGroupSession) error { return nil }

// Cleanup implements sarama.ConsumerGroupHandler.
func (c *CredentialRevocationConsumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim implements sarama.ConsumerGroupHandler. Undecodable messages are
// logged and committed so one bad record cannot stall the partition; store
// failures leave the offset unmarked for redelivery.
func (c *CredentialRevocationConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := c.HandleMessage(session.Context(), msg); err != nil {
				if errors.Is(err, errStore) {
					return err
				}
				c.logger.Error("discard credential revocation message",
					zap.Error(err),
					zap.String("topic", msg.Topic),
					zap.Int32("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
				)
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

var _ sarama.ConsumerGroupHandler = (*CredentialRevocationConsumer)(nil)

// ConsumerGroup runs a handler against a topic until its context ends.
type ConsumerGroup struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler sarama.ConsumerGroupHandler
	logger  *zap.Logger
}

// NewConsumerGroup joins groupID on the configured brokers.
func NewConsumerGroup(cfg config.KafkaSettings, groupID string, topics []string, handler sarama.ConsumerGroupHandler, logger *zap.Logger) (*ConsumerGroup, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_5_0_0
	saramaConfig.ClientID = "logitrack-api"
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, groupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsumerGroup{group: group, topics: topics, handler: handler, logger: logger}, nil
}

// Run blocks, rejoining the group after every rebalance.
func (g *ConsumerGroup) Run(ctx context.Context) {
	go func() {
		for err := range g.group.Errors() {
			g.logger.Error("kafka consumer error", zap.Error(err))
		}
	}()

	for {
		if err := g.group.Consume(ctx, g.topics, g.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			g.logger.Error("kafka consume failed", zap.Error(err), zap.Strings("topics", g.topics))
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (g *ConsumerGroup) Close() error {
	return g.group.Close()
}
