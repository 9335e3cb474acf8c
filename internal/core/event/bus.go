package event

import (
	"reflect"
	"sync"
)

// Bus carries typed events between systems across frames. An event emitted
// during frame N is delivered at the start of frame N+1, when
// EventDispatchSystem calls SwapBuffers then DispatchAll. Within a frame,
// event types are delivered in the order the bus first saw them and handlers
// in subscription order, so delivery is deterministic.
type Bus struct {
	mu     sync.Mutex // only protects Subscribe
	queues map[reflect.Type]*queue
	order  []*queue
}

// queue holds one event type: what this frame emitted, what last frame
// emitted, and the handlers for both.
type queue struct {
	emitted  []any
	ready    []any
	handlers []func(any)
}

func NewBus() *Bus {
	return &Bus{queues: make(map[reflect.Type]*queue)}
}

func (b *Bus) queueFor(t reflect.Type) *queue {
	q, ok := b.queues[t]
	if !ok {
		q = &queue{}
		b.queues[t] = q
		b.order = append(b.order, q)
	}
	return q
}

// Emit records an event for delivery next frame.
func Emit[T any](b *Bus, event T) {
	q := b.queueFor(reflect.TypeFor[T]())
	q.emitted = append(q.emitted, event)
}

// Subscribe registers fn for every future delivery of T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.queueFor(reflect.TypeFor[T]())
	q.handlers = append(q.handlers, func(ev any) { fn(ev.(T)) })
}

// Pending returns how many events of type T were emitted this frame.
func Pending[T any](b *Bus) int {
	q, ok := b.queues[reflect.TypeFor[T]()]
	if !ok {
		return 0
	}
	return len(q.emitted)
}

// SwapBuffers makes this frame's events ready and starts an empty frame.
// Events ready from the previous swap are dropped.
func (b *Bus) SwapBuffers() {
	for _, q := range b.order {
		q.emitted, q.ready = q.ready[:0], q.emitted
	}
}

// DispatchAll hands every ready event to its handlers.
func (b *Bus) DispatchAll() {
	for _, q := range b.order {
		for _, ev := range q.ready {
			for _, h := range q.handlers {
				h(ev)
			}
		}
	}
}
