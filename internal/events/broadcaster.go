package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const subscriberBuffer = 64

// Broadcaster fans events out to in-process subscribers. Sends never block;
// a subscriber whose buffer is full misses the event.
type Broadcaster struct {
	logger *zap.Logger

	sync.RWMutex
	clients map[string]chan Event
}

func NewBroadcaster(logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		logger:  logger,
		clients: make(map[string]chan Event),
	}
}

func (b *Broadcaster) Publish(_ context.Context, event Event) error {
	b.RLock()
	defer b.RUnlock()

	for id, client := range b.clients {
		select {
		case client <- event:
		default:
			droppedEvents.Inc()
			b.logger.Sugar().Warnf("client(%s) channel full, skipping %s event", id, event.Type)
		}
	}
	return nil
}

// Subscribe registers a client. The returned function unsubscribes it and
// closes the channel.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	id := uuid.NewString()
	client := make(chan Event, subscriberBuffer)

	b.Lock()
	b.clients[id] = client
	subscribers.Set(float64(len(b.clients)))
	b.Unlock()

	var once sync.Once
	return client, func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Broadcaster) remove(id string) {
	b.Lock()
	defer b.Unlock()

	if client, ok := b.clients[id]; ok {
		close(client)
		delete(b.clients, id)
	}
	subscribers.Set(float64(len(b.clients)))
}

func (b *Broadcaster) Len() int {
	b.RLock()
	defer b.RUnlock()

	return len(b.clients)
}

// Shutdown closes every subscriber channel.
func (b *Broadcaster) Shutdown() {
	b.Lock()
	defer b.Unlock()

	for id, client := range b.clients {
		close(client)
		delete(b.clients, id)
	}
	subscribers.Set(0)
}
