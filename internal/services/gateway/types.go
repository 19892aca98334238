package gateway

import (
	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/repositories/mirror"
)

// DefaultInboxSize is how many pending events the loop buffers
const DefaultInboxSize = 256

// GatewayError is a custom error type for gateway errors
type GatewayError string

// Error implements the error interface
func (e GatewayError) Error() string {
	return string(e)
}

const (
	ErrNilConfig  GatewayError = "config cannot be nil"
	ErrNilMirror  GatewayError = "mirror repository cannot be nil"
	ErrNilConn    GatewayError = "connection cannot be nil"
	ErrNotRunning GatewayError = "gateway is not running"
)

// Config holds configuration for the gateway
type Config struct {
	// Mirror stores the relay's copy of each live room
	Mirror mirror.Repository

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	// Observers are offered every routed message
	Observers []Observer

	// InboxSize defaults to DefaultInboxSize
	InboxSize int
}
