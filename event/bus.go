// Package event is a synchronous publish/subscribe bus for cross-component
// signaling. A Bus is constructed once per game and handed to whatever
// needs it; there is no package level instance.
package event

import (
	"fmt"

	"go.uber.org/zap"
)

// Handler receives the payload passed to Emit.
type Handler func(payload any)

// ListenerID identifies a subscription for Off.
type ListenerID uint64

type listener struct {
	id      ListenerID
	fn      Handler
	once    bool
	removed bool
}

// Bus maps event names to listeners in subscription order.
//
// Emit works on a snapshot of the listener list taken when it starts.
// Listeners subscribed during an emit are not called by that emit; a
// listener removed during an emit is not called afterwards by that emit.
// A listener that panics is logged and skipped.
type Bus struct {
	log       *zap.Logger
	listeners map[string][]*listener
	nextID    ListenerID
}

// NewBus creates an empty bus. A nil logger is replaced by a no-op one.
func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		log:       log,
		listeners: make(map[string][]*listener),
	}
}

// On subscribes fn to name.
func (b *Bus) On(name string, fn Handler) ListenerID {
	return b.subscribe(name, fn, false)
}

// Once subscribes fn to name for a single delivery.
func (b *Bus) Once(name string, fn Handler) ListenerID {
	return b.subscribe(name, fn, true)
}

func (b *Bus) subscribe(name string, fn Handler, once bool) ListenerID {
	if b == nil || fn == nil {
		return 0
	}
	b.nextID++
	l := &listener{id: b.nextID, fn: fn, once: once}
	b.listeners[name] = append(b.listeners[name], l)
	return l.id
}

// Off removes the subscription id from name. It reports whether one was removed.
func (b *Bus) Off(name string, id ListenerID) bool {
	if b == nil {
		return false
	}
	list := b.listeners[name]
	for i, l := range list {
		if l.id != id {
			continue
		}
		l.removed = true
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(b.listeners, name)
		} else {
			b.listeners[name] = list
		}
		return true
	}
	return false
}

// Emit delivers payload to every listener of name.
func (b *Bus) Emit(name string, payload any) {
	if b == nil {
		return
	}
	list := b.listeners[name]
	if len(list) == 0 {
		return
	}
	snapshot := append([]*listener(nil), list...)
	for _, l := range snapshot {
		if l.removed {
			continue
		}
		if l.once {
			b.Off(name, l.id)
		}
		b.deliver(name, l, payload)
	}
}

func (b *Bus) deliver(name string, l *listener, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event listener panicked",
				zap.String("event", name),
				zap.Uint64("listener", uint64(l.id)),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	l.fn(payload)
}

// Listeners returns how many listeners name has.
func (b *Bus) Listeners(name string) int {
	if b == nil {
		return 0
	}
	return len(b.listeners[name])
}

// RemoveAll drops every listener of name.
func (b *Bus) RemoveAll(name string) {
	if b == nil {
		return
	}
	for _, l := range b.listeners[name] {
		l.removed = true
	}
	delete(b.listeners, name)
}

// Clear drops every listener.
func (b *Bus) Clear() {
	if b == nil {
		return
	}
	for name := range b.listeners {
		b.RemoveAll(name)
	}
}

// Subscribe is a typed wrapper around On. Payloads of another type are ignored.
func Subscribe[T any](b *Bus, name string, fn func(T)) ListenerID {
	return b.On(name, func(payload any) {
		if v, ok := payload.(T); ok {
			fn(v)
		}
	})
}
