package controller

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"korean_news_vn/internal/catalog"
	"korean_news_vn/internal/logger"
	"korean_news_vn/internal/metrics"
	"korean_news_vn/internal/models"
)

const (
	// DefaultDelay imitates network latency before a refreshed list is published.
	DefaultDelay = 800 * time.Millisecond
	// DefaultInterval is the auto-refresh period.
	DefaultInterval = time.Minute
)

// Trigger labels what started a refresh.
type Trigger string

const (
	TriggerInitial Trigger = "initial"
	TriggerManual  Trigger = "manual"
	TriggerSelect  Trigger = "select"
	TriggerAuto    Trigger = "auto"
)

// ErrClosed is returned by operations on a controller after Close.
var ErrClosed = errors.New("controller closed")

// Options настраивает контроллер.
type Options struct {
	Delay       time.Duration
	Interval    time.Duration
	Source      string
	AutoRefresh bool
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

// DefaultOptions returns the widget's stock behaviour: all sources, 800ms delay,
// auto-refresh every minute.
func DefaultOptions() Options {
	return Options{
		Delay:       DefaultDelay,
		Interval:    DefaultInterval,
		Source:      models.AllSources,
		AutoRefresh: true,
	}
}

type autoTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Controller owns the ViewState and is the only thing that mutates it.
type Controller struct {
	delay       time.Duration
	interval    time.Duration
	autoOnStart bool
	metrics     *metrics.Metrics
	now         func() time.Time
	log         *logger.Entry

	mu        sync.Mutex
	state     models.ViewState
	pending   map[uint64]struct{}
	started   uint64
	published uint64
	shown     string // source whose list is in state.Items
	auto      *autoTask
	subs      map[chan models.ViewState]struct{}
	closed    bool
}

func New(opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.Source == "" {
		opts.Source = models.AllSources
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		delay:       opts.Delay,
		interval:    opts.Interval,
		autoOnStart: opts.AutoRefresh,
		metrics:     opts.Metrics,
		now:         opts.Now,
		log: logger.Log.WithFields(map[string]interface{}{
			"service":  "controller",
			"interval": opts.Interval.String(),
		}),
		state:   models.ViewState{Source: opts.Source},
		shown:   opts.Source,
		pending: make(map[uint64]struct{}),
		subs:    make(map[chan models.ViewState]struct{}),
	}
}

// State returns a snapshot of the current view state.
func (c *Controller) State() models.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Start выполняет первоначальную загрузку и, если это задано в Options,
// включает автообновление.
func (c *Controller) Start(ctx context.Context) error {
	if c.autoOnStart {
		c.SetAutoRefresh(true)
	}
	return c.refresh(ctx, TriggerInitial, nil)
}

// Refresh recomputes the list for the selected source. It blocks for the
// configured delay and returns ctx.Err() if ctx ends first.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx, TriggerManual, nil)
}

// SelectSource makes id the active source and refreshes. An unknown id is
// accepted and produces an empty list. The switch and the loading state are
// published together; if ctx ends before the list is published the previous
// tab is restored.
func (c *Controller) SelectSource(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	restart := c.auto != nil
	c.mu.Unlock()

	c.log.WithField("source", id).Debug("Source selected")

	// Switching tabs restarts the auto-refresh period.
	if restart {
		c.SetAutoRefresh(true)
	}
	return c.refresh(ctx, TriggerSelect, &id)
}

// SetAutoRefresh starts or stops the recurring refresh. Enabling replaces any
// running task, so at most one is active.
func (c *Controller) SetAutoRefresh(enabled bool) {
	c.mu.Lock()
	old := c.auto
	c.auto = nil
	if enabled && !c.closed {
		ctx, cancel := context.WithCancel(context.Background())
		task := &autoTask{cancel: cancel, done: make(chan struct{})}
		c.auto = task
		go c.runAuto(ctx, task)
	}
	c.state.AutoRefresh = c.auto != nil
	c.publishLocked()
	c.mu.Unlock()

	stopTask(old)
	c.log.WithField("enabled", enabled).Info("Auto-refresh toggled")
}

// Subscribe returns a channel that receives the latest state after every
// change. Slow readers only miss intermediate snapshots. The returned func
// unsubscribes.
func (c *Controller) Subscribe() (<-chan models.ViewState, func()) {
	ch := make(chan models.ViewState, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subs[ch] = struct{}{}
	ch <- c.state.Clone()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subs[ch]; ok {
			delete(c.subs, ch)
			close(ch)
		}
	}
}

// Close cancels auto-refresh and closes all subscriptions.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	old := c.auto
	c.auto = nil
	c.state.AutoRefresh = false
	for ch := range c.subs {
		close(ch)
	}
	c.subs = nil
	c.mu.Unlock()

	stopTask(old)
	c.log.Info("Controller stopped")
}

func (c *Controller) runAuto(ctx context.Context, task *autoTask) {
	defer close(task.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.log.Debug("Starting auto-refresh cycle")
			if err := c.refresh(ctx, TriggerAuto, nil); err != nil && !errors.Is(err, context.Canceled) {
				c.log.Warnf("Auto-refresh failed: %v", err)
			}

		case <-ctx.Done():
			return
		}
	}
}

// refresh switches to *selectID first when it is non-nil.
func (c *Controller) refresh(ctx context.Context, trigger Trigger, selectID *string) error {
	began := time.Now()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.started++
	seq := c.started
	if selectID != nil {
		c.state.Source = *selectID
	}
	source := c.state.Source
	c.pending[seq] = struct{}{}
	c.state.Loading = true
	c.publishLocked()
	c.mu.Unlock()

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, seq)
		// Nothing newer is pending: put back the tab whose items are on screen.
		if selectID != nil && seq > c.newestPendingLocked() {
			c.state.Source = c.shown
		}
		c.state.Loading = len(c.pending) > 0
		c.publishLocked()
		c.mu.Unlock()
		return ctx.Err()
	}

	items := SortByDateDesc(catalog.Select(source))

	c.mu.Lock()
	delete(c.pending, seq)
	// A refresh started later has already published a newer selection.
	if seq > c.published {
		c.published = seq
		c.shown = source
		// A newer pending refresh owns the tab until it publishes or is cancelled.
		if seq > c.newestPendingLocked() {
			c.state.Source = source
		}
		c.state.Items = items
		c.state.LastUpdate = c.now()
	}
	c.state.Loading = len(c.pending) > 0
	shown := len(c.state.Items)
	c.publishLocked()
	c.mu.Unlock()

	c.metrics.ObserveRefresh(string(trigger), time.Since(began), shown)
	c.log.WithFields(map[string]interface{}{
		"trigger": string(trigger),
		"source":  source,
		"items":   len(items),
	}).Debug("Refresh published")
	return nil
}

// publishLocked pushes the current state to every subscriber, replacing an
// unread older snapshot. c.mu must be held.
func (c *Controller) publishLocked() {
	for ch := range c.subs {
		snap := c.state.Clone()
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (c *Controller) newestPendingLocked() uint64 {
	var newest uint64
	for seq := range c.pending {
		newest = max(newest, seq)
	}
	return newest
}

func stopTask(t *autoTask) {
	if t == nil {
		return
	}
	t.cancel()
	<-t.done
}

// SortByDateDesc sorts items newest first in place and returns them.
// Items sharing a date keep their relative order.
func SortByDateDesc(items []models.NewsItem) []models.NewsItem {
	slices.SortStableFunc(items, func(a, b models.NewsItem) int {
		return b.ParsedDate().Compare(a.ParsedDate())
	})
	return items
}
