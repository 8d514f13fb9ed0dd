package bus

import "sync"

/*
This file defines the in-process broadcast channel that ties mutations
to the consumers that need to notice them.

Admin screens live in unrelated UI subtrees. When a menu item is
updated on one screen, an inventory dashboard somewhere else has to
converge on fresh data, and the two share no common ancestor that
could tell them to. The bus is how they meet:
- Mutations publish a topic after clearing caches
- Live loaders subscribe to the topics they care about

Delivery is synchronous and best-effort:
- Publish calls every handler subscribed at that moment, in the
  publisher's goroutine, before returning
- Handlers subscribed after a Publish never see it (no queue, no
  replay)

Handlers therefore MUST be fast and non-blocking. Anything that does
I/O hands off to its own goroutine.
*/

// Handler is invoked with the topic that was published. Topics carry
// no payload; identity is the whole message.
type Handler func(topic string)

// Bus is a topic-keyed observer list. The zero value is not usable;
// call New.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
}

func New() *Bus {
	return &Bus{subs: make(map[string]map[int]Handler)}
}

/*
Subscribe registers a handler for one topic and returns the
subscription as an explicit resource.

The caller owns the subscription and is responsible for releasing it
with Cancel on every exit path. A leaked subscription keeps its
handler (and everything the handler closes over) reachable for the
bus's lifetime.
*/
func (b *Bus) Subscribe(topic string, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = h

	return &Subscription{bus: b, topic: topic, id: id}
}

/*
Publish delivers topic to every currently-subscribed handler.

The subscriber set is snapshotted under the read lock and the handlers
run outside it, so a handler may itself Subscribe or Cancel without
deadlocking. Publishing a topic nobody listens to is a no-op.
*/
func (b *Bus) Publish(topic string) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(topic)
	}
}

// Subscribers returns how many handlers are registered for a topic.
// Diagnostics only.
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Subscription is a handle to one registered handler.
type Subscription struct {
	bus   *Bus
	topic string
	id    int

	once sync.Once
}

// Cancel removes the handler from the bus. Safe to call more than
// once and safe to call from inside the handler itself.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()

		if m := s.bus.subs[s.topic]; m != nil {
			delete(m, s.id)
			if len(m) == 0 {
				delete(s.bus.subs, s.topic)
			}
		}
	})
}
