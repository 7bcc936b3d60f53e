package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/messaging"
)

type kafkaPublisher struct {
	writer *kafkaGo.Writer
	logger *zap.Logger
}

var _ messaging.Publisher = (*kafkaPublisher)(nil)

// NewPublisher creates a Kafka-backed event publisher. The topic is set
// per message so one writer serves all topics.
func NewPublisher(brokers []string, logger *zap.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		writer: &kafkaGo.Writer{
			Addr:     kafkaGo.TCP(brokers...),
			Balancer: &kafkaGo.LeastBytes{},
		},
		logger: logger,
	}
}

func (p *kafkaPublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkaGo.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("topic", topic),
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
