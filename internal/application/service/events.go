package service

import (
	"context"
	"time"
)

const EventContentChanged = "content.changed"

type ContentEvent struct {
	EventType  string    `json:"event_type"`
	Resource   string    `json:"resource"`
	Origin     string    `json:"origin"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishContentEvent(ctx context.Context, evt ContentEvent) error
}

// ChangeNotifier is told about every successful admin mutation.
type ChangeNotifier interface {
	ContentChanged(ctx context.Context, resource string)
}
