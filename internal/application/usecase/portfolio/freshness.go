package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const (
	DefaultRefreshInterval = 30 * time.Second

	focusQueueSize = 16
)

// FreshnessController refreshes the snapshot on a fixed interval and every
// time the public view reports that it regained focus.
type FreshnessController struct {
	refresher Refresher
	logger    logger.Logger
	interval  time.Duration
	clock     clockwork.Clock

	mu      sync.Mutex
	running bool
	focus   chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

type FreshnessOption func(*FreshnessController)

func WithInterval(d time.Duration) FreshnessOption {
	return func(c *FreshnessController) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithClock(clock clockwork.Clock) FreshnessOption {
	return func(c *FreshnessController) {
		c.clock = clock
	}
}

func NewFreshnessController(r Refresher, log logger.Logger, opts ...FreshnessOption) *FreshnessController {
	c := &FreshnessController{
		refresher: r,
		logger:    log,
		interval:  DefaultRefreshInterval,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start arms the timer and the focus listener. Calling Start on a running
// controller does nothing.
func (c *FreshnessController) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}

	c.running = true
	c.focus = make(chan struct{}, focusQueueSize)
	c.stop = make(chan struct{})
	c.done = make(chan struct{})

	ticker := c.clock.NewTicker(c.interval)
	go c.loop(context.WithoutCancel(ctx), ticker, c.focus, c.stop, c.done)

	c.logger.Info("Freshness controller started", zap.Duration("interval", c.interval))
}

// Focus signals that the public view regained focus. It never blocks and is
// ignored while the controller is stopped.
func (c *FreshnessController) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	select {
	case c.focus <- struct{}{}:
	default:
		c.logger.Warn("Focus queue full, dropping focus signal")
	}
}

// Stop releases the timer and the focus listener and waits for the loop to
// exit. Refreshes already dispatched are left to finish.
func (c *FreshnessController) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stop)
	done := c.done
	c.mu.Unlock()

	<-done
	c.logger.Info("Freshness controller stopped")
}

func (c *FreshnessController) loop(ctx context.Context, ticker clockwork.Ticker, focus <-chan struct{}, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			c.dispatch(ctx, "timer")
		case <-focus:
			c.dispatch(ctx, "focus")
		}
	}
}

func (c *FreshnessController) dispatch(ctx context.Context, trigger string) {
	c.logger.Debug("Refreshing portfolio snapshot", zap.String("trigger", trigger))
	go c.refresher.Refresh(ctx)
}
