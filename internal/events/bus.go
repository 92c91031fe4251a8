package events

import "sync"

// Handler receives a published event.
type Handler func(Event)

type subscription struct {
	id      uint64
	topic   Topic
	all     bool
	handler Handler
}

// Bus delivers events to subscribers on the publisher's goroutine, in
// subscription order. A panicking subscriber is recovered and reported
// to the OnPanic hooks; delivery continues with the next subscriber.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription

	hooks hooks
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers fn for one topic and returns a function that
// removes the subscription.
func (bus *Bus) Subscribe(topic Topic, fn Handler) (unsubscribe func()) {
	return bus.add(subscription{topic: topic, handler: fn})
}

// SubscribeAll registers fn for every topic.
func (bus *Bus) SubscribeAll(fn Handler) (unsubscribe func()) {
	return bus.add(subscription{all: true, handler: fn})
}

func (bus *Bus) add(sub subscription) func() {
	bus.mu.Lock()
	bus.nextID++
	sub.id = bus.nextID
	bus.subs = append(bus.subs, sub)
	bus.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { bus.remove(sub.id) })
	}
}

func (bus *Bus) remove(id uint64) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, s := range bus.subs {
		if s.id == id {
			bus.subs = append(bus.subs[:i:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every matching subscriber. A nil bus drops the
// event.
func (bus *Bus) Publish(e Event) {
	if bus == nil {
		return
	}

	bus.mu.RLock()
	subs := make([]subscription, 0, len(bus.subs))
	for _, s := range bus.subs {
		if s.all || s.topic == e.Topic {
			subs = append(subs, s)
		}
	}
	bus.mu.RUnlock()

	bus.runOnPublish(e)
	for _, s := range subs {
		bus.deliver(s.handler, e)
	}
}

func (bus *Bus) deliver(fn Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(e, r)
		}
	}()
	fn(e)
}
