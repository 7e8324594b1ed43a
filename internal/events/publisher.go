// Package events publishes catalog and contact change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ecomarket/internal/config"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types.
const (
	ProductCreated      = "product.created"
	ProductUpdated      = "product.updated"
	ProductDeleted      = "product.deleted"
	ProductImageUpdated = "product.image_updated"
	CategoryCreated     = "category.created"
	CategoryUpdated     = "category.updated"
	CategoryDeleted     = "category.deleted"
	MessageRead         = "message.read"
	MessageDeleted      = "message.deleted"
	ContactReceived     = "contact.received"
)

// Event is the JSON envelope written to the topic.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType string, entityID int64, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by entity so changes to one entity stay
// ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("Kafka producer error", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(messageKey(event)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.Debug("Event published", zap.String("type", event.Type), zap.Int64("entity_id", event.EntityID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func messageKey(event Event) string {
	entity, _, _ := strings.Cut(event.Type, ".")
	return entity + ":" + strconv.FormatInt(event.EntityID, 10)
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// NewPublisher returns a Kafka publisher when brokers are configured and a
// NopPublisher otherwise.
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) Publisher {
	if !cfg.Enabled() {
		logger.Info("Kafka brokers not configured, catalog events disabled")
		return NopPublisher{}
	}
	logger.Info("Publishing catalog events", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return NewKafkaPublisher(cfg, logger)
}
