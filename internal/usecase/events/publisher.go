// Package events publishes order lifecycle notifications to Kafka for
// downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
	"github.com/quantclip/fix-brokerage/pkg/config"
	"github.com/quantclip/fix-brokerage/pkg/errors"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

// Publisher represents a Kafka publisher for order lifecycle events.
// Events for one order share a key so partition ordering matches the
// order's lifecycle.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for order events.
func NewPublisher(cfg config.EventKafkaConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishOrderEvent publishes an order event to the Kafka topic.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event *orderv1.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errors.NewTracer("failed to encode order event").Wrap(err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: value,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(errors.NewTracer("failed to publish order event").Wrap(err),
			logger.Field{Key: "orderID", Value: event.OrderID},
			logger.Field{Key: "status", Value: event.Status},
		)
		return errors.NewCoded(errors.KafkaPublishError, "failed to publish order event")
	}
	return nil
}

// Close shuts down the underlying writer, flushing buffered messages.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
