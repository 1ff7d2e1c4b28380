package streaming

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/pkg/logger"
)

func newTestBus() *EventBus {
	return NewEventBus(nil, logger.NewDefault())
}

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	ch, unsubscribe := bus.Subscribe(context.Background(), &Subscription{})
	defer unsubscribe()

	require.Equal(t, 1, bus.SubscriberCount())

	ev := NewScanLifecycleEvent(EventTypeScanStarted, "scan-1")
	require.NoError(t, bus.Publish(context.Background(), ev))

	got := <-ch
	assert.Equal(t, ev, got)
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	ch, unsubscribe := bus.Subscribe(context.Background(), &Subscription{})
	unsubscribe()

	assert.Equal(t, 0, bus.SubscriberCount())

	// Channel is closed after unsubscribing.
	_, ok := <-ch
	assert.False(t, ok)

	// Unsubscribing twice is harmless.
	unsubscribe()
}

func TestEventBusDropsWhenSubscriberFull(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	ch, unsubscribe := bus.Subscribe(context.Background(), &Subscription{})
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, bus.Publish(context.Background(), NewScanLifecycleEvent(EventTypeScanStarted, "scan-1")))
	}

	// Overflow is dropped, the buffer holds exactly its capacity.
	assert.Len(t, ch, subscriberBuffer)
}

func TestEventBusForwardSurvivesUnsubscribe(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	_, unsubscribe := bus.Subscribe(context.Background(), &Subscription{})

	bus.mu.RLock()
	ch := bus.subscribers["1"]
	bus.mu.RUnlock()

	src := make(chan *ScanEvent)
	done := make(chan struct{})
	go func() {
		bus.forward("1", ch, src)
		close(done)
	}()

	src <- NewScanLifecycleEvent(EventTypeScanStarted, "scan-1")
	unsubscribe()

	// Events arriving after unsubscribe are dropped, not sent on the
	// now-closed channel.
	src <- NewScanLifecycleEvent(EventTypeScanCompleted, "scan-1")
	close(src)
	<-done
}

func TestEventBusClose(t *testing.T) {
	bus := newTestBus()

	ch, _ := bus.Subscribe(context.Background(), &Subscription{})
	bus.Close()

	assert.Equal(t, 0, bus.SubscriberCount())
	_, ok := <-ch
	assert.False(t, ok)
}
