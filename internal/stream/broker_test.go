package stream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBroker() *Broker {
	return NewBroker(zap.NewNop(), nil)
}

func recv(t *testing.T, sub *Subscriber) Event {
	t.Helper()

	select {
	case ev := <-sub.Events():
		return ev
	default:
		t.Fatal("no event buffered")
		return Event{}
	}
}

func TestFanOut(t *testing.T) {
	b := newTestBroker()

	subs := []*Subscriber{b.Subscribe(), b.Subscribe(), b.Subscribe()}
	require.Equal(t, 3, b.Len())

	b.Publish("item-added", map[string]any{"id": "42", "title": "Widget"})

	for _, sub := range subs {
		ev := recv(t, sub)
		assert.Equal(t, "item-added", ev.Name)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(ev.Data, &payload))
		assert.Equal(t, "42", payload["id"])

		select {
		case extra := <-sub.Events():
			t.Fatalf("unexpected second event %q", extra.Name)
		default:
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := newTestBroker()

	keep := b.Subscribe()
	gone := b.Subscribe()

	b.Unsubscribe(gone)
	require.Equal(t, 1, b.Len())

	b.Publish("item-deleted", "payload")

	assert.Equal(t, "item-deleted", recv(t, keep).Name)
	select {
	case <-gone.Events():
		t.Fatal("removed subscriber still received an event")
	default:
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	b := newTestBroker()

	sub := b.Subscribe()
	b.Unsubscribe(sub)
	b.Unsubscribe(sub)
	b.Unsubscribe(nil)

	assert.Zero(t, b.Len())
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	b := newTestBroker()
	sub := b.Subscribe()

	for i := 0; i <= subscriberBuffer; i++ {
		b.Publish("tick", i)
	}

	// the first published event was shed to make room for the newest
	first := recv(t, sub)
	var n int
	require.NoError(t, json.Unmarshal(first.Data, &n))
	assert.Equal(t, 1, n)

	drained := 1
	for {
		select {
		case <-sub.Events():
			drained++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, drained)
}

func TestPublishSkipsUnencodablePayload(t *testing.T) {
	b := newTestBroker()
	sub := b.Subscribe()

	b.Publish("bad", func() {})

	select {
	case <-sub.Events():
		t.Fatal("unencodable payload should not be delivered")
	default:
	}
}
