// Package notify provides change notification for settings updates.
//
// Components subscribe to option changes and receive a synchronous
// callback whenever the settings store accepts a new value.
package notify

import "sync"

// Change represents a single settings change event.
type Change struct {
	// Name is the dot-separated option name.
	Name string

	// OldValue is the previous value (nil if the option was unset).
	OldValue any

	// NewValue is the new value.
	NewValue any

	// Pattern is the URL pattern the change is scoped to, empty for global.
	Pattern string

	// Source identifies where the change came from, e.g. "config.lua".
	Source string
}

// Observer is called when a settings change occurs.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages settings change subscriptions. Delivery is synchronous
// and happens on the goroutine performing the change.
type Notifier struct {
	mu sync.RWMutex

	// Observers that receive all changes
	observers map[uint64]Observer

	// Observers keyed by exact option name
	nameObservers map[string]map[uint64]Observer

	nextID uint64
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{
		observers:     make(map[uint64]Observer),
		nameObservers: make(map[string]map[uint64]Observer),
	}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = observer

	return &Subscription{id: id, notifier: n}
}

// SubscribeName registers an observer for changes to one option.
func (n *Notifier) SubscribeName(name string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	if n.nameObservers[name] == nil {
		n.nameObservers[name] = make(map[uint64]Observer)
	}
	n.nameObservers[name][id] = observer

	return &Subscription{id: id, notifier: n}
}

// Notify delivers a change to all matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.observers))
	for _, obs := range n.observers {
		observers = append(observers, obs)
	}
	for _, obs := range n.nameObservers[change.Name] {
		observers = append(observers, obs)
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}

// unsubscribe removes an observer by ID.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.observers, id)
	for name, observers := range n.nameObservers {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.nameObservers, name)
		}
	}
}
