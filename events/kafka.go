package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kariqs/satshop-api/logger"
	"github.com/segmentio/kafka-go"
)

const eventTypeHeader = "event_type"

type KafkaConfig struct {
	Brokers    []string
	Topic      string
	MaxRetries int
}

// KafkaPublisher writes every event to a single topic, keyed by aggregate id,
// with the event type carried in a header.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            cfg.MaxRetries,
		WriteTimeout:           10 * time.Second,
	}

	logger.Info(context.Background(), "kafka publisher created", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return &KafkaPublisher{writer: writer, topic: cfg.Topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	msg, err := buildMessage(eventType, key, payload)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error(ctx, "failed to publish event", "topic", p.topic, "event_type", eventType, "key", key, "error", err)
		return err
	}

	logger.Debug(ctx, "event published", "topic", p.topic, "event_type", eventType, "key", key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func buildMessage(eventType, key string, payload any) (kafka.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	return kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: eventTypeHeader, Value: []byte(eventType)},
		},
		Time: time.Now(),
	}, nil
}
