// Package bus is a synchronous, in-process publish/subscribe bus.
//
// Dispatch happens on the publishing goroutine: every handler subscribed to
// the event's name (and every wildcard handler) runs to completion, in
// subscription order, before Publish returns. The subscriber list is
// snapshotted when Publish starts, so handlers added during dispatch do not
// see the in-flight event, and handlers removed during dispatch are skipped
// if they have not run yet.
package bus

import (
	"sync"
	"sync/atomic"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// DefaultMaxDepth bounds nested publishes from inside handlers.
const DefaultMaxDepth = 32

// ErrReentrancyLimit is reported when handlers keep publishing past the depth limit.
var ErrReentrancyLimit = errors.New("bus: re-entrant publish depth exceeded")

// Event is anything that carries its own name.
type Event interface {
	EventName() string
}

// Handler reacts to an event. A returned error does not stop dispatch.
type Handler[E Event] func(E) error

// ErrorHandler receives handler failures, including recovered panics.
type ErrorHandler[E Event] func(ev E, err error)

// Handle identifies a subscription.
type Handle struct {
	id uint64
}

type subscription[E Event] struct {
	id      uint64
	name    string
	all     bool
	handler Handler[E]
	active  atomic.Bool
}

// Bus dispatches events of type E. The zero value is not usable; call New.
type Bus[E Event] struct {
	mu       sync.Mutex
	subs     []*subscription[E]
	nextID   uint64
	depth    atomic.Int32
	maxDepth int32
	onError  ErrorHandler[E]
}

// Option configures a Bus.
type Option[E Event] func(*Bus[E])

// WithErrorHandler replaces the default logging error handler.
func WithErrorHandler[E Event](h ErrorHandler[E]) Option[E] {
	return func(b *Bus[E]) { b.onError = h }
}

// WithLogger logs handler failures to the given logger.
func WithLogger[E Event](log *zap.Logger) Option[E] {
	return func(b *Bus[E]) { b.onError = logErrors[E](log) }
}

// WithMaxDepth sets the nested publish limit.
func WithMaxDepth[E Event](n int) Option[E] {
	return func(b *Bus[E]) { b.maxDepth = int32(n) }
}

// New creates a bus. Without options failures go to a no-op logger, so pass
// WithLogger or WithErrorHandler in anything but throwaway code.
func New[E Event](opts ...Option[E]) *Bus[E] {
	b := &Bus[E]{
		maxDepth: DefaultMaxDepth,
		onError:  logErrors[E](zap.NewNop()),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func logErrors[E Event](log *zap.Logger) ErrorHandler[E] {
	return func(ev E, err error) {
		log.Error("event handler failed", zap.String("event", ev.EventName()), zap.Error(err))
	}
}

// Subscribe registers h for events named name.
func (b *Bus[E]) Subscribe(name string, h Handler[E]) Handle {
	return b.add(&subscription[E]{name: name, handler: h})
}

// SubscribeAll registers h for every event.
func (b *Bus[E]) SubscribeAll(h Handler[E]) Handle {
	return b.add(&subscription[E]{all: true, handler: h})
}

func (b *Bus[E]) add(s *subscription[E]) Handle {
	s.active.Store(true)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s.id = b.nextID
	b.subs = append(b.subs, s)
	return Handle{id: s.id}
}

// Unsubscribe removes the subscription. Unknown or already removed handles are ignored.
func (b *Bus[E]) Unsubscribe(h Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id != h.id {
			continue
		}
		s.active.Store(false)
		// copy-on-write: snapshots taken by in-flight publishes keep their backing array
		next := make([]*subscription[E], 0, len(b.subs)-1)
		next = append(next, b.subs[:i]...)
		b.subs = append(next, b.subs[i+1:]...)
		return
	}
}

// Len returns the number of live subscriptions.
func (b *Bus[E]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers ev to all matching handlers before returning.
func (b *Bus[E]) Publish(ev E) {
	if d := b.depth.Add(1); d > b.maxDepth {
		b.depth.Add(-1)
		b.onError(ev, errors.Wrapf(ErrReentrancyLimit, "publishing %s", ev.EventName()))
		return
	}
	defer b.depth.Add(-1)

	b.mu.Lock()
	snapshot := b.subs
	b.mu.Unlock()

	name := ev.EventName()
	for _, s := range snapshot {
		if !s.all && s.name != name {
			continue
		}
		if !s.active.Load() {
			continue
		}
		if err := b.invoke(s.handler, ev); err != nil {
			b.onError(ev, err)
		}
	}
}

func (b *Bus[E]) invoke(h Handler[E], ev E) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = errors.Wrap(rerr, "handler panic")
				return
			}
			err = errors.Errorf("handler panic: %v", r)
		}
	}()
	return h(ev)
}
