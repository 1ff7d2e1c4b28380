package streaming

import (
	"context"
	"strconv"
	"sync"

	"argus/pkg/logger"
)

// Per-subscriber channel capacity. A subscriber that falls more than
// this far behind starts losing events rather than stalling the scanner.
const subscriberBuffer = 64

// EventBus distributes scan events to subscribers
type EventBus struct {
	nats   *NATSPublisher
	logger *logger.Logger

	mu          sync.RWMutex
	subscribers map[string]chan *ScanEvent
	nextID      int
}

// NewEventBus creates a new event bus. The NATS publisher may be nil,
// in which case events are broadcast locally only.
func NewEventBus(nats *NATSPublisher, log *logger.Logger) *EventBus {
	return &EventBus{
		nats:        nats,
		logger:      log.WithComponent("event-bus"),
		subscribers: make(map[string]chan *ScanEvent),
	}
}

// Publish publishes a scan event to all subscribers. Slow subscribers
// drop events, publishing never blocks.
func (eb *EventBus) Publish(ctx context.Context, event *ScanEvent) error {
	if eb.nats != nil && eb.nats.IsConnected() {
		if err := eb.nats.PublishScanEvent(ctx, event); err != nil {
			eb.logger.Warn().Err(err).Msg("failed to publish to NATS, using local broadcast only")
		}
	}

	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for id, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			eb.logger.Debug().Str("subscriber", id).Msg("subscriber channel full, dropping event")
		}
	}

	return nil
}

// Subscribe creates a new subscription and returns a channel for events
func (eb *EventBus) Subscribe(ctx context.Context, sub *Subscription) (<-chan *ScanEvent, func()) {
	eb.mu.Lock()
	eb.nextID++
	id := strconv.Itoa(eb.nextID)
	ch := make(chan *ScanEvent, subscriberBuffer)
	eb.subscribers[id] = ch
	eb.mu.Unlock()

	eb.logger.Debug().Str("subscriber_id", id).Msg("new subscriber")

	unsubscribe := func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		if _, ok := eb.subscribers[id]; ok {
			close(ch)
			delete(eb.subscribers, id)
			eb.logger.Debug().Str("subscriber_id", id).Msg("subscriber removed")
		}
	}

	// If NATS is available, also subscribe there for distributed events
	if eb.nats != nil && eb.nats.IsConnected() {
		natsCh, err := eb.nats.Subscribe(ctx, sub)
		if err == nil {
			go eb.forward(id, ch, natsCh)
		}
	}

	return ch, unsubscribe
}

// forward relays events from an external source to a subscriber channel.
// Sends hold the bus lock and re-check membership so an unsubscribe
// cannot close the channel mid-send.
func (eb *EventBus) forward(id string, ch chan *ScanEvent, events <-chan *ScanEvent) {
	for event := range events {
		eb.mu.RLock()
		if _, ok := eb.subscribers[id]; ok {
			select {
			case ch <- event:
			default:
				eb.logger.Debug().Str("subscriber", id).Msg("subscriber channel full, dropping event")
			}
		}
		eb.mu.RUnlock()
	}
}

// SubscriberCount returns the number of active subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// Close closes the event bus
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for id, ch := range eb.subscribers {
		close(ch)
		delete(eb.subscribers, id)
	}

	if eb.nats != nil {
		eb.nats.Close()
	}
}
