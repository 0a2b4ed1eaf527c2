package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// ContentEventHandler processes one decoded event. A failed event is retried
// with backoff; after the last attempt it is logged, committed and dropped,
// since the group offset moves past it with the next commit anyway.
type ContentEventHandler func(ctx context.Context, evt service.ContentEvent) error

const (
	defaultHandleAttempts = 3
	defaultRetryBackoff   = time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ContentEventConsumer struct {
	reader       messageReader
	handler      ContentEventHandler
	logger       logger.Logger
	attempts     int
	retryBackoff time.Duration
}

// NewContentEventConsumer joins groupID on the content topic. Server replicas
// use a group per instance so each one sees every change.
func NewContentEventConsumer(cfg config.Config, groupID string, handler ContentEventHandler, log logger.Logger) (*ContentEventConsumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}
	topic := cfg.Kafka.ContentTopic
	if topic == "" {
		topic = TopicContentEvents
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &ContentEventConsumer{
		reader:       reader,
		handler:      handler,
		logger:       log.With(zap.String("topic", topic), zap.String("group_id", groupID)),
		attempts:     defaultHandleAttempts,
		retryBackoff: defaultRetryBackoff,
	}, nil
}

// Run consumes until ctx is cancelled.
func (c *ContentEventConsumer) Run(ctx context.Context) error {
	c.logger.Info("Listening for content events")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		var evt service.ContentEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			c.logger.Warn("Skipping undecodable content event", zap.Int64("offset", msg.Offset), zap.Error(err))
			c.commit(ctx, msg)
			continue
		}
		if evt.EventType != service.EventContentChanged {
			c.commit(ctx, msg)
			continue
		}

		if err := c.handle(ctx, evt); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Dropping content event after retries", err,
				zap.String("resource", evt.Resource),
				zap.Int64("offset", msg.Offset),
			)
		}
		c.commit(ctx, msg)
	}
}

// handle runs the handler, doubling the wait between attempts.
func (c *ContentEventConsumer) handle(ctx context.Context, evt service.ContentEvent) error {
	attempts := max(c.attempts, 1)
	backoff := c.retryBackoff

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = c.handler(ctx, evt); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		c.logger.Warn("Content event handler failed, retrying",
			zap.String("resource", evt.Resource),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

func (c *ContentEventConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}

func (c *ContentEventConsumer) Close() error {
	return c.reader.Close()
}
