package feed

import (
	"context"
	"sync"

	model "hidden-market/internal/models"
	"hidden-market/utils"
)

// Broker carries change events from the store to every subscribed session
type Broker interface {
	Publish(ctx context.Context, ev model.ChangeEvent) error
	// Subscribe returns a channel that delivers events in publish order. The
	// channel is closed when ctx is cancelled or the underlying transport drops.
	Subscribe(ctx context.Context) (<-chan model.ChangeEvent, error)
	Close() error
}

// subscriberBuffer bounds how far a slow subscriber may lag before it is dropped
const subscriberBuffer = 256

// MemoryBroker fans events out to in-process subscribers
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[int]chan model.ChangeEvent
	nextID int
	closed bool
}

// NewMemoryBroker creates an empty in-process broker
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[int]chan model.ChangeEvent)}
}

// Publish delivers ev to every subscriber. A subscriber whose buffer is full
// is disconnected, which ends its feed the same way a dropped connection would.
func (b *MemoryBroker) Publish(_ context.Context, ev model.ChangeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			utils.Warn("feed: subscriber too slow, dropping", map[string]any{"subscriber": id})
			close(ch)
			delete(b.subs, id)
		}
	}
	return nil
}

// Subscribe registers a new subscriber until ctx is cancelled
func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan model.ChangeEvent, error) {
	b.mu.Lock()
	ch := make(chan model.ChangeEvent, subscriberBuffer)
	if b.closed {
		close(ch)
		b.mu.Unlock()
		return ch, nil
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(id)
	}()
	return ch, nil
}

func (b *MemoryBroker) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}

// Subscribers reports how many subscriptions are live
func (b *MemoryBroker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	b.closed = true
	return nil
}
