package notification

import (
	"context"

	"github.com/example/gardenia/internal/domain/order"
	"github.com/example/gardenia/internal/infrastructure/kafka"
)

// KafkaPublisher adapts the Kafka producer to the order event publisher.
type KafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event order.Event) error {
	return p.producer.Publish(ctx, key, event)
}
