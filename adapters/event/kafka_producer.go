package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const TopicContentEvents = "content.events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ContentEventsWriter messageWriter
	logger              logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}
	topic := cfg.Kafka.ContentTopic
	if topic == "" {
		topic = TopicContentEvents
	}

	contentWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.String("topic", topic))

	return &KafkaProducerClient{
		ContentEventsWriter: contentWriter,
		logger:              log,
	}, nil
}

// PublishContentEvent keys the message by resource so changes to one
// resource stay ordered.
func (c *KafkaProducerClient) PublishContentEvent(ctx context.Context, evt service.ContentEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal content event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.Resource),
		Value: payload,
		Time:  evt.OccurredAt,
	}
	if err := c.ContentEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write content event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ContentEventsWriter != nil {
		if err := c.ContentEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

// NoopPublisher is used when no brokers are configured; changes then only
// reach the local instance.
type NoopPublisher struct{}

func (NoopPublisher) PublishContentEvent(context.Context, service.ContentEvent) error { return nil }
