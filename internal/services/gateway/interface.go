package gateway

//go:generate mockgen -package=mocks -destination=mocks/mock_observer.go github.com/KirkDiggler/numberjack/internal/services/gateway Observer

import (
	"context"

	"github.com/KirkDiggler/numberjack/internal/relay"
)

// Conn is one connected relay client
type Conn interface {
	// ID uniquely identifies the connection
	ID() string

	// Send queues a frame for delivery without blocking. Reports false if the frame was dropped.
	Send(frame []byte) bool
}

// Observer is offered every routed message. It runs on the gateway loop and must not block.
type Observer interface {
	Observe(ctx context.Context, msg relay.Message)
}
