// Package events delivers kill notifications to registered observers.
// Delivery is synchronous and single pass: an observer runs to completion
// before the next one is called.
package events

import "github.com/nathoo/skirmish/types"

//go:generate go tool mockgen -destination=./mocks/observer_mock.go -package=mocks . Observer

// Observer receives kill notifications. Implementations must not block for
// long; the battle waits for them.
type Observer interface {
	OnKill(ev types.KillEvent)
}

// ObserverFunc adapts a plain function to an Observer.
type ObserverFunc func(ev types.KillEvent)

// OnKill calls f(ev).
func (f ObserverFunc) OnKill(ev types.KillEvent) { f(ev) }

// Bus is an ordered list of observers. Duplicates are allowed and are
// notified once per registration.
type Bus struct {
	observers []Observer
}

// Subscribe appends an observer. Nil observers are ignored.
func (b *Bus) Subscribe(o Observer) {
	if o == nil {
		return
	}
	b.observers = append(b.observers, o)
}

// Publish notifies every observer in registration order.
func (b *Bus) Publish(ev types.KillEvent) {
	for _, o := range b.observers {
		o.OnKill(ev)
	}
}

// Len returns the number of registrations.
func (b *Bus) Len() int {
	return len(b.observers)
}
