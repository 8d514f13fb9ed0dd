package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/pos-admin-cache/bus"
)

//
// ================= DELIVERY =================
//

func TestPublishReachesAllCurrentSubscribers(t *testing.T) {
	b := bus.New()

	var got []string
	s1 := b.Subscribe("topicA", func(topic string) { got = append(got, "s1:"+topic) })
	s2 := b.Subscribe("topicA", func(topic string) { got = append(got, "s2:"+topic) })
	defer s1.Cancel()
	defer s2.Cancel()

	// delivery is synchronous: both handlers ran before Publish returned
	b.Publish("topicA")
	assert.ElementsMatch(t, []string{"s1:topicA", "s2:topicA"}, got)
}

func TestPublishIsScopedToTopic(t *testing.T) {
	b := bus.New()

	calls := 0
	s := b.Subscribe("topicA", func(string) { calls++ })
	defer s.Cancel()

	b.Publish("topicB")
	assert.Zero(t, calls)

	b.Publish("topicA")
	assert.Equal(t, 1, calls)
}

func TestLateSubscriberMissesEarlierBroadcast(t *testing.T) {
	b := bus.New()

	b.Publish("topicA") // nobody listening, nothing queued

	calls := 0
	s := b.Subscribe("topicA", func(string) { calls++ })
	defer s.Cancel()

	assert.Zero(t, calls)
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	b := bus.New()
	require.NotPanics(t, func() { b.Publish("topicA") })
}

//
// ================= SUBSCRIPTION LIFECYCLE =================
//

func TestCancelStopsDelivery(t *testing.T) {
	b := bus.New()

	calls := 0
	s := b.Subscribe("topicA", func(string) { calls++ })

	b.Publish("topicA")
	s.Cancel()
	b.Publish("topicA")

	assert.Equal(t, 1, calls)
	assert.Zero(t, b.Subscribers("topicA"))
}

func TestCancelIsIdempotent(t *testing.T) {
	b := bus.New()

	s := b.Subscribe("topicA", func(string) {})
	s.Cancel()
	require.NotPanics(t, func() { s.Cancel() })
}

func TestCancelInsideHandler(t *testing.T) {
	b := bus.New()

	calls := 0
	var s *bus.Subscription
	s = b.Subscribe("topicA", func(string) {
		calls++
		s.Cancel() // one-shot subscription
	})

	b.Publish("topicA")
	b.Publish("topicA")

	assert.Equal(t, 1, calls)
}

func TestSubscribeInsideHandler(t *testing.T) {
	b := bus.New()

	lateCalls := 0
	s := b.Subscribe("topicA", func(string) {
		b.Subscribe("topicA", func(string) { lateCalls++ })
	})
	defer s.Cancel()

	b.Publish("topicA")
	// the handler registered during delivery sees the NEXT broadcast
	assert.Zero(t, lateCalls)

	b.Publish("topicA")
	assert.Equal(t, 1, lateCalls)
}
