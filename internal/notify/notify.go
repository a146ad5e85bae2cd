// Package notify delivers repair-order refresh signals to open UI surfaces.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TypeRefreshOrder tells listeners to reload the named repair order.
const TypeRefreshOrder = "refresh-order"

// Notification is a single broadcast message.
type Notification struct {
	At        time.Time `json:"at"`
	Type      string    `json:"type"`
	ShopID    string    `json:"shopId"`
	OrderID   string    `json:"orderId"`
	LaborRate int       `json:"laborRate,omitempty"`
}

// RefreshOrder builds the notification sent after a labor rate correction.
func RefreshOrder(shopID, orderID string, laborRate int) Notification {
	return Notification{
		At:        time.Now().UTC(),
		Type:      TypeRefreshOrder,
		ShopID:    shopID,
		OrderID:   orderID,
		LaborRate: laborRate,
	}
}

// Sink receives broadcast notifications.
type Sink interface {
	Broadcast(ctx context.Context, n Notification) error
}

// MultiSink forwards every notification to all of its sinks. A failing sink
// does not prevent delivery to the others; the failures are joined and returned.
type MultiSink []Sink

// Broadcast implements Sink.
func (m MultiSink) Broadcast(ctx context.Context, n Notification) error {
	var errs []error
	for i, sink := range m {
		if sink == nil {
			continue
		}
		if err := safeBroadcast(ctx, sink, n); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func safeBroadcast(ctx context.Context, sink Sink, n Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()
	return sink.Broadcast(ctx, n)
}

// Broadcaster fans notifications out to in-process subscribers such as SSE streams.
// Delivery never blocks: a subscriber whose buffer is full misses the notification.
type Broadcaster struct {
	subscribers map[uint64]chan Notification
	logger      *slog.Logger
	nextID      uint64
	mu          sync.RWMutex
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan Notification),
		logger:      slog.Default().With("component", "notify"),
	}
}

// Subscribe registers a listener. The returned cancel func unregisters it and closes the channel.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Notification, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Notification, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of registered listeners.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Broadcast implements Sink.
func (b *Broadcaster) Broadcast(_ context.Context, n Notification) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- n:
		default:
			b.logger.Warn("Dropping notification for slow subscriber",
				"subscriber", id,
				"type", n.Type,
				"order_id", n.OrderID)
		}
	}
	return nil
}
