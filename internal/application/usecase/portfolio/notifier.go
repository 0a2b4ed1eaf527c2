package portfolio

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// Notifier fans a content change out to the local snapshot and to other
// instances through the event publisher.
type Notifier struct {
	refresher Refresher
	publisher service.EventPublisher
	origin    string
	logger    logger.Logger
}

func NewNotifier(r Refresher, publisher service.EventPublisher, origin string, log logger.Logger) *Notifier {
	return &Notifier{
		refresher: r,
		publisher: publisher,
		origin:    origin,
		logger:    log,
	}
}

var _ service.ChangeNotifier = (*Notifier)(nil)

func (n *Notifier) ContentChanged(ctx context.Context, resource string) {
	bg := context.WithoutCancel(ctx)
	go n.refresher.Refresh(bg)

	evt := service.ContentEvent{
		EventType:  service.EventContentChanged,
		Resource:   resource,
		Origin:     n.origin,
		OccurredAt: time.Now().UTC(),
	}
	go func() {
		if err := n.publisher.PublishContentEvent(bg, evt); err != nil {
			n.logger.Error("Failed to publish content event", err, zap.String("resource", resource))
		}
	}()
}

// HandleContentEvent refreshes for changes made by other instances. Events
// this instance published were already applied locally.
func (n *Notifier) HandleContentEvent(ctx context.Context, evt service.ContentEvent) {
	if evt.Origin == n.origin {
		return
	}
	n.logger.Info("Content changed on another instance",
		zap.String("resource", evt.Resource),
		zap.String("origin", evt.Origin),
	)
	n.refresher.Refresh(ctx)
}
