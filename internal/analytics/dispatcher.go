package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/portfolio/pkg/lifecycle"
	messagebus "github.com/vardius/message-bus"
)

// Topic is the message bus topic events are published on.
const Topic = "analytics.event"

// Tracker accepts events without reporting delivery.
type Tracker interface {
	Track(event Event)
}

// Sink receives dispatched events. Errors are logged and dropped.
type Sink interface {
	Collect(ctx context.Context, event Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Collect(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Dispatcher publishes events to subscribed sinks asynchronously. Track
// never blocks: events that do not fit the pending queue are dropped.
type Dispatcher struct {
	bus     messagebus.MessageBus
	logger  *slog.Logger
	ctx     context.Context
	now     func() time.Time
	pending chan Event

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher whose pending queue and per-sink queues
// each hold queueSize events.
func NewDispatcher(queueSize int, logger *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	d := &Dispatcher{
		bus:     messagebus.New(queueSize),
		logger:  logger.With("system", "analytics"),
		ctx:     context.Background(),
		now:     time.Now,
		pending: make(chan Event, queueSize),
	}
	go d.forward()
	return d
}

// forward owns every bus publish. A stuck sink stalls only this goroutine.
func (d *Dispatcher) forward() {
	for event := range d.pending {
		d.bus.Publish(Topic, event)
	}
	d.bus.Close(Topic)
}

// Start binds sink calls to the coordinator context and closes the topic on
// shutdown.
func (d *Dispatcher) Start(lc *lifecycle.Coordinator) {
	d.mu.Lock()
	d.ctx = lc.Context()
	d.mu.Unlock()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.Close()
	})
}

// Subscribe registers sink for every subsequently tracked event.
func (d *Dispatcher) Subscribe(sink Sink) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	return d.bus.Subscribe(Topic, func(event Event) {
		d.mu.RLock()
		ctx := d.ctx
		d.mu.RUnlock()

		if err := sink.Collect(ctx, event); err != nil {
			d.logger.Debug("event dropped", "type", event.Type, "error", err)
		}
	})
}

// Track publishes event. Invalid events and events after Close are dropped.
func (d *Dispatcher) Track(event Event) {
	if err := event.Validate(); err != nil {
		d.logger.Debug("invalid event", "error", err)
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = d.now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.pending <- event:
	default:
		d.logger.Debug("event dropped", "type", event.Type, "reason", "queue full")
	}
}

// Close stops accepting events and returns without waiting for delivery.
// Pending events may be dropped.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.pending)
}
