package relay

//go:generate mockgen -package=mocks -destination=mocks/mock_channel.go github.com/KirkDiggler/numberjack/internal/relay Channel

import "context"

// Channel is a connection to the relay. Delivery is fire-and-forget and unordered
// with respect to the ledger.
type Channel interface {
	// Connect opens the connection. Connecting an open channel is a no-op.
	Connect(ctx context.Context) error

	// Disconnect closes the connection and stops delivery. Disconnecting a closed channel is a no-op.
	Disconnect() error

	// Publish sends a message to the other members of its room
	Publish(ctx context.Context, msg Message) error

	// Messages delivers decoded messages from other room members
	Messages() <-chan Message
}
