// Package stream fans mutation events out to every connected
// storefront client. Delivery is at-most-once and best-effort: each
// subscriber gets a small buffer, and when it overflows the oldest
// pending event is dropped rather than blocking the publisher.
package stream

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const subscriberBuffer = 16

type Event struct {
	Name string
	Data []byte
}

type Subscriber struct {
	id string
	ch chan Event
}

// Events is the subscriber's receive side. The channel is never
// closed; consumers stop reading when their connection context ends.
func (s *Subscriber) Events() <-chan Event { return s.ch }

type Broker struct {
	mu   sync.Mutex
	subs []*Subscriber
	log  *zap.Logger

	published  prometheus.Counter
	dropped    prometheus.Counter
	subscribed prometheus.Gauge
}

func NewBroker(log *zap.Logger, reg *prometheus.Registry) *Broker {
	b := &Broker{
		log: log,
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Events published to the broadcast fan-out",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Events dropped from slow subscriber buffers",
		}),
		subscribed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "event_subscribers",
			Help: "Currently connected event subscribers",
		}),
	}

	if reg != nil {
		reg.MustRegister(b.published, b.dropped, b.subscribed)
	}
	return b
}

func (b *Broker) Subscribe() *Subscriber {
	sub := &Subscriber{
		id: uuid.NewString(),
		ch: make(chan Event, subscriberBuffer),
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	b.subscribed.Inc()
	return sub
}

// Unsubscribe removes the subscriber; calling it again is a no-op.
func (b *Broker) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			b.subscribed.Dec()
			return
		}
	}
}

// Publish serializes payload once and delivers it to every subscriber
// in registration order. A full buffer sheds its oldest event; one
// stuck subscriber never delays the rest or the caller.
func (b *Broker) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.log.Warn("drop unencodable event", zap.String("event", event), zap.Error(err))
		return
	}
	ev := Event{Name: event, Data: data}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
			continue
		default:
		}

		select {
		case <-sub.ch:
			b.dropped.Inc()
		default:
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
	b.published.Inc()
}

func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
