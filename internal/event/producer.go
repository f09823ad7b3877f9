// Package event publishes account lifecycle events for downstream
// consumers. Publishing is best-effort: a broker outage never fails the
// request that triggered the event.
package event

import (
	"context"
	"log/slog"

	"github.com/sahalaww/sc-auth/pkg/kafka"
	"github.com/sahalaww/sc-auth/pkg/logger"
)

const (
	source        = "sc-auth"
	aggregateType = "account"

	topicAccounts = "accounts.events"

	TypeUserRegistered = "accounts.user.registered"
	TypeUserDeleted    = "accounts.user.deleted"
	TypeTokenRevoked   = "accounts.token.revoked"
)

// Publisher publishes account events.
type Publisher interface {
	UserRegistered(ctx context.Context, publicID, username, role string)
	UserDeleted(ctx context.Context, publicID string)
	TokenRevoked(ctx context.Context, publicID, jti, kind string)
}

// KafkaPublisher publishes account events to Kafka.
type KafkaPublisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewKafkaPublisher creates a Kafka-backed account event publisher.
func NewKafkaPublisher(producer *kafka.Producer, log *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: log}
}

// UserRegisteredData is the payload of an accounts.user.registered event.
type UserRegisteredData struct {
	PublicID string `json:"public_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserDeletedData is the payload of an accounts.user.deleted event.
type UserDeletedData struct {
	PublicID string `json:"public_id"`
}

// TokenRevokedData is the payload of an accounts.token.revoked event.
type TokenRevokedData struct {
	PublicID string `json:"public_id"`
	JTI      string `json:"jti"`
	Kind     string `json:"kind"`
}

func (p *KafkaPublisher) UserRegistered(ctx context.Context, publicID, username, role string) {
	p.publish(ctx, TypeUserRegistered, publicID, UserRegisteredData{
		PublicID: publicID,
		Username: username,
		Role:     role,
	})
}

func (p *KafkaPublisher) UserDeleted(ctx context.Context, publicID string) {
	p.publish(ctx, TypeUserDeleted, publicID, UserDeletedData{PublicID: publicID})
}

func (p *KafkaPublisher) TokenRevoked(ctx context.Context, publicID, jti, kind string) {
	p.publish(ctx, TypeTokenRevoked, publicID, TokenRevokedData{
		PublicID: publicID,
		JTI:      jti,
		Kind:     kind,
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType, aggregateID string, data any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topicAccounts, evt); err != nil {
		// Already logged by the producer; the triggering request proceeds.
		return
	}
}

// NoopPublisher discards all events. Used when Kafka is not configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) UserRegistered(context.Context, string, string, string) {}
func (NoopPublisher) UserDeleted(context.Context, string)                    {}
func (NoopPublisher) TokenRevoked(context.Context, string, string, string)   {}
