package coordinator

import (
	"log/slog"
	"sync"
)

const subscriberBuffer = 100

// Broker fans out every outbound message to the subscribed channels. Slow
// subscribers lose messages instead of blocking the pipeline.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan Message]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Message]struct{})}
}

// Subscribe creates a new channel receiving every published message.
func (b *Broker) Subscribe() chan Message {
	ch := make(chan Message, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel from the subscribers and closes it.
func (b *Broker) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}

func (b *Broker) Publish(msg Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
			slog.Warn("Discarding message (channel full)",
				slog.String("type", string(msg.Type)),
				slog.String("message", msg.Message),
			)
		}
	}
}
