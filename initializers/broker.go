package initializers

import (
	"context"
	"io"

	"github.com/Kariqs/satshop-api/events"
	"github.com/Kariqs/satshop-api/logger"
)

var Publisher events.Publisher = events.NopPublisher{}

func ConnectToBroker() {
	kc := Config.Kafka
	if !kc.Enabled || len(kc.Brokers) == 0 {
		logger.Info(context.Background(), "kafka disabled, order events are not published")
		return
	}

	Publisher = events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:    kc.Brokers,
		Topic:      kc.Topic,
		MaxRetries: kc.MaxRetries,
	})
}

// Close releases the broker, cache and database connections.
func Close() {
	ctx := context.Background()
	if closer, ok := Publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn(ctx, "failed to close kafka writer", "error", err)
		}
	}
	if Redis != nil {
		if err := Redis.Close(); err != nil {
			logger.Warn(ctx, "failed to close redis", "error", err)
		}
	}
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
