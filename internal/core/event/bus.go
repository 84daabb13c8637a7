package event

import (
	"reflect"
	"sync"
)

// Bus is a typed signal bus with two delivery modes.
//
// Publish calls subscribers immediately. Emit queues into the back buffer; the
// event becomes readable after the next SwapBuffers and is delivered by
// DispatchAll, so events emitted in frame N are handled in frame N+1.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]handler
	nextID   uint64
}

type handler struct {
	id   uint64
	fn   any
	once bool
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]handler),
	}
}

// Subscription identifies one registered handler.
type Subscription struct {
	bus *Bus
	t   reflect.Type
	id  uint64
}

// Unsubscribe removes the handler. Safe to call more than once and from
// inside a handler.
func (s Subscription) Unsubscribe() {
	if s.bus == nil {
		return
	}
	s.bus.remove(s.t, s.id)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) Subscription {
	return subscribe(b, fn, false)
}

// Once registers a handler that is removed after its first delivery.
func Once[T any](b *Bus, fn func(T)) Subscription {
	return subscribe(b, fn, true)
}

func subscribe[T any](b *Bus, fn func(T), once bool) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeFor[T]()
	b.nextID++
	b.handlers[t] = append(b.handlers[t], handler{id: b.nextID, fn: fn, once: once})
	return Subscription{bus: b, t: t, id: b.nextID}
}

// Publish delivers event to every current subscriber of T, in subscription order.
func Publish[T any](b *Bus, event T) {
	t := reflect.TypeFor[T]()
	for _, h := range b.take(t) {
		h.fn.(func(T))(event)
	}
}

// Emit queues an event into the back buffer (readable after the next swap).
func Emit[T any](b *Bus, event T) {
	t := reflect.TypeFor[T]()
	b.back[t] = append(b.back[t], event)
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at frame start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers all front-buffer events to their subscribed handlers.
func (b *Bus) DispatchAll() {
	for t, events := range b.front {
		for _, ev := range events {
			for _, h := range b.take(t) {
				callHandler(h.fn, ev)
			}
		}
		b.front[t] = events[:0]
	}
}

// Pending returns the number of events waiting in the back buffer.
func (b *Bus) Pending() int {
	n := 0
	for _, events := range b.back {
		n += len(events)
	}
	return n
}

// take returns a stable copy of the handlers for t and drops one-shot handlers.
func (b *Bus) take(t reflect.Type) []handler {
	b.mu.Lock()
	defer b.mu.Unlock()
	hs := b.handlers[t]
	if len(hs) == 0 {
		return nil
	}
	out := make([]handler, len(hs))
	copy(out, hs)
	kept := hs[:0]
	for _, h := range hs {
		if !h.once {
			kept = append(kept, h)
		}
	}
	b.handlers[t] = kept
	return out
}

func (b *Bus) remove(t reflect.Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	hs := b.handlers[t]
	for i, h := range hs {
		if h.id == id {
			b.handlers[t] = append(hs[:i:i], hs[i+1:]...)
			return
		}
	}
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
