package session

import (
	"context"
	"sync"

	"github.com/KirkDiggler/numberjack/internal/relay"
)

// bus connects fake channels so that a publish reaches every other connected member
type bus struct {
	mu      sync.Mutex
	members []*fakeChannel
}

func (b *bus) channel() *fakeChannel {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := &fakeChannel{bus: b, messages: make(chan relay.Message, 64)}
	b.members = append(b.members, c)
	return c
}

func (b *bus) deliver(from *fakeChannel, msg relay.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, m := range b.members {
		if m == from || !m.isConnected() {
			continue
		}
		select {
		case m.messages <- msg:
		default:
		}
	}
}

type fakeChannel struct {
	bus      *bus
	messages chan relay.Message

	mu        sync.Mutex
	connected bool
	published []relay.Message
}

func (c *fakeChannel) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
	return nil
}

func (c *fakeChannel) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	return nil
}

func (c *fakeChannel) Publish(ctx context.Context, msg relay.Message) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return relay.ErrNotConnected
	}
	c.published = append(c.published, msg)
	c.mu.Unlock()

	c.bus.deliver(c, msg)
	return nil
}

func (c *fakeChannel) Messages() <-chan relay.Message {
	return c.messages
}

func (c *fakeChannel) isConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeChannel) sent() []relay.MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()

	types := make([]relay.MessageType, 0, len(c.published))
	for _, m := range c.published {
		types = append(types, m.Type())
	}
	return types
}
