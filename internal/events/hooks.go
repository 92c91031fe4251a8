package events

import "sync"

// hooks holds the lifecycle hook state for the Bus.
type hooks struct {
	mu        sync.RWMutex
	onPublish []func(Event)
	onPanic   []func(Event, any)
}

// OnPublish registers a hook that fires before an event is delivered.
func (bus *Bus) OnPublish(fn func(Event)) {
	bus.hooks.mu.Lock()
	bus.hooks.onPublish = append(bus.hooks.onPublish, fn)
	bus.hooks.mu.Unlock()
}

// OnPanic registers a hook that fires when a subscriber panics.
func (bus *Bus) OnPanic(fn func(Event, any)) {
	bus.hooks.mu.Lock()
	bus.hooks.onPanic = append(bus.hooks.onPanic, fn)
	bus.hooks.mu.Unlock()
}

func (bus *Bus) runOnPublish(e Event) {
	bus.hooks.mu.RLock()
	hooks := make([]func(Event), len(bus.hooks.onPublish))
	copy(hooks, bus.hooks.onPublish)
	bus.hooks.mu.RUnlock()
	for _, fn := range hooks {
		fn(e)
	}
}

func (bus *Bus) runOnPanic(e Event, recovered any) {
	bus.hooks.mu.RLock()
	hooks := make([]func(Event, any), len(bus.hooks.onPanic))
	copy(hooks, bus.hooks.onPanic)
	bus.hooks.mu.RUnlock()
	for _, fn := range hooks {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(e, recovered)
		}()
	}
}
