package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishContentEvent(t *testing.T) {
	w := &recordingWriter{}
	client := &KafkaProducerClient{ContentEventsWriter: w, logger: logger.NewNopLogger()}
	evt := service.ContentEvent{
		EventType:  service.EventContentChanged,
		Resource:   "projects",
		Origin:     "api-1",
		OccurredAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, client.PublishContentEvent(context.Background(), evt))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "projects", string(w.msgs[0].Key))

	var decoded service.ContentEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, evt, decoded)

	w.err = errors.New("broker down")
	assert.Error(t, client.PublishContentEvent(context.Background(), evt))
}

type scriptedReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		r.cancel()
		return kafka.Message{}, context.Canceled
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *scriptedReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error { return nil }

func encode(t *testing.T, evt service.ContentEvent) []byte {
	t.Helper()
	b, err := json.Marshal(evt)
	require.NoError(t, err)
	return b
}

func TestConsumerHandlesAndCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &scriptedReader{cancel: cancel, msgs: []kafka.Message{
		{Offset: 1, Value: encode(t, service.ContentEvent{EventType: service.EventContentChanged, Resource: "skills"})},
		{Offset: 2, Value: []byte("not json")},
		{Offset: 3, Value: encode(t, service.ContentEvent{EventType: "something.else"})},
		{Offset: 4, Value: encode(t, service.ContentEvent{EventType: service.EventContentChanged, Resource: "fail"})},
		{Offset: 5, Value: encode(t, service.ContentEvent{EventType: service.EventContentChanged, Resource: "profile"})},
	}}

	var handled []string
	consumer := &ContentEventConsumer{
		reader: reader,
		handler: func(ctx context.Context, evt service.ContentEvent) error {
			handled = append(handled, evt.Resource)
			if evt.Resource == "fail" {
				return errors.New("handler failed")
			}
			return nil
		},
		logger:       logger.NewNopLogger(),
		attempts:     3,
		retryBackoff: time.Millisecond,
	}

	require.NoError(t, consumer.Run(ctx))
	assert.Equal(t, []string{"skills", "fail", "fail", "fail", "profile"}, handled)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, reader.committed)
}

func TestConsumerRetriesTransientHandlerFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &scriptedReader{cancel: cancel, msgs: []kafka.Message{
		{Offset: 7, Value: encode(t, service.ContentEvent{EventType: service.EventContentChanged, Resource: "projects"})},
	}}

	calls := 0
	consumer := &ContentEventConsumer{
		reader: reader,
		handler: func(ctx context.Context, evt service.ContentEvent) error {
			calls++
			if calls == 1 {
				return errors.New("bucket timeout")
			}
			return nil
		},
		logger:       logger.NewNopLogger(),
		attempts:     3,
		retryBackoff: time.Millisecond,
	}

	require.NoError(t, consumer.Run(ctx))
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int64{7}, reader.committed)
}
