package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yourorg/stock-dashboard/internal/model"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types published to the dashboard events topic.
const (
	TypeRefreshCompleted   = "dashboard.refresh_completed"
	TypeDecisionCalculated = "dashboard.decision_calculated"
)

// RefreshCompleted is emitted after a refresh pipeline settles, whether
// fully successful or aborted.
type RefreshCompleted struct {
	Symbol   string              `json:"symbol"`
	Stages   []model.StageResult `json:"stages"`
	Duration string              `json:"duration"`
}

// DecisionCalculated is emitted after a successful trade-decision call.
type DecisionCalculated struct {
	Symbol string `json:"symbol"`
	Action string `json:"action"`
}

// Producer handles producing dashboard events to a Kafka topic
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// envelope wraps every published event with its type and timestamp.
type envelope struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewProducer creates a new Kafka producer for the dashboard events topic
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		Transport: &kafka.Transport{
			ClientID: "stock-dashboard",
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// Publish sends one event to the topic, keyed so that all events for a
// symbol land in the same partition.
func (p *Producer) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	value, err := json.Marshal(envelope{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		p.logger.Error("Failed to marshal event",
			zap.String("type", eventType),
			zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("type", eventType),
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	p.logger.Debug("Event published",
		zap.String("type", eventType),
		zap.String("key", key))

	return nil
}

// Close closes the underlying Kafka writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
