// Package system holds the per-frame logic that spans entities: camera,
// particles, enemy scripts, the boss fight, combat and pickups, and level
// progress. Systems talk to each other only through the event bus.
package system

import "github.com/milk9111/platformer/event"

type subscription struct {
	name string
	id   event.ListenerID
}

// listeners remembers a system's bus subscriptions so Destroy can drop them.
type listeners struct {
	bus  *event.Bus
	subs []subscription
}

func listen[T any](l *listeners, name string, fn func(T)) {
	if l.bus == nil {
		return
	}
	l.subs = append(l.subs, subscription{name: name, id: event.Subscribe(l.bus, name, fn)})
}

func (l *listeners) off() {
	for _, s := range l.subs {
		l.bus.Off(s.name, s.id)
	}
	l.subs = nil
}
