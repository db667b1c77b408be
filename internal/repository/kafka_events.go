package repository

import (
	"context"
	"fmt"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	pkgkafka "github.com/mikey22333/startup-sub001/pkg/kafka"
)

// KafkaEventPublisher publishes refresh outcomes to a Kafka topic, keyed by
// (industry|location) so consumers see per-pair ordering.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishRefresh(ctx context.Context, ev models.RefreshEvent) error {
	key := []byte(fmt.Sprintf("%s|%s", ev.Industry, ev.Location))
	return p.producer.Publish(ctx, p.topic, key, ev)
}
