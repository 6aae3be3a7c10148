package events

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Envelope wraps a domain event with a delivery id and publish time so
// subscribers can deduplicate and order deliveries.
type Envelope struct {
	ID      string
	At      time.Time
	Payload interface{}
}

type Subscriber func(Envelope)

// Dispatcher fans published events out to subscribers on a single
// background goroutine, keeping subscriber work outside the mutating call
// that produced the event.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	queue       chan Envelope
	done        chan struct{}
}

func NewDispatcher(buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 128
	}
	d := &Dispatcher{
		queue: make(chan Envelope, buffer),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Subscribe(sub Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, sub)
}

// Publish enqueues the event for delivery. If the queue is full the event
// is dropped with a log line rather than blocking the ledger call:
// notifications are best-effort, ledger writes are not.
func (d *Dispatcher) Publish(event interface{}) {
	env := Envelope{
		ID:      uuid.NewString(),
		At:      time.Now().UTC(),
		Payload: event,
	}
	select {
	case d.queue <- env:
	default:
		log.Printf("events: queue full, dropping %T", event)
	}
}

func (d *Dispatcher) run() {
	for {
		select {
		case env := <-d.queue:
			d.mu.RLock()
			subs := d.subscribers
			d.mu.RUnlock()
			for _, sub := range subs {
				sub(env)
			}
		case <-d.done:
			return
		}
	}
}

func (d *Dispatcher) Close() {
	close(d.done)
}
