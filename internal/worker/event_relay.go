package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tcnexs/backend/internal/events"
)

// ErrRelayFull is returned when the relay buffer cannot take another event.
var ErrRelayFull = errors.New("event relay buffer full")

// SinkFunc delivers one event to its destination.
type SinkFunc func(ctx context.Context, event events.Event) error

// EventRelay decouples event delivery from the publishing request. Publish
// only enqueues; Run drains the queue into the sink.
type EventRelay struct {
	queue   chan events.Event
	sink    SinkFunc
	timeout time.Duration
	logger  *zap.Logger
	done    chan struct{}
	once    sync.Once
}

// NewEventRelay buffers up to size events for sink.
func NewEventRelay(sink SinkFunc, size int, logger *zap.Logger) *EventRelay {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRelay{
		queue:   make(chan events.Event, size),
		sink:    sink,
		timeout: 5 * time.Second,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Publish enqueues event without blocking.
func (r *EventRelay) Publish(_ context.Context, event events.Event) error {
	select {
	case r.queue <- event:
		return nil
	default:
		return ErrRelayFull
	}
}

// Run delivers queued events until ctx is cancelled, then drains what is left.
func (r *EventRelay) Run(ctx context.Context) {
	defer r.once.Do(func() { close(r.done) })
	for {
		select {
		case event := <-r.queue:
			r.deliver(event)
		case <-ctx.Done():
			r.drain()
			return
		}
	}
}

// Done is closed once Run has returned.
func (r *EventRelay) Done() <-chan struct{} {
	return r.done
}

func (r *EventRelay) drain() {
	for {
		select {
		case event := <-r.queue:
			r.deliver(event)
		default:
			return
		}
	}
}

func (r *EventRelay) deliver(event events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.sink(ctx, event); err != nil {
		r.logger.Warn("event relay delivery failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
