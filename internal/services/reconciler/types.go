package reconciler

import (
	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/models"
)

// Config holds configuration for the reconciler
type Config struct {
	// Logger receives dropped-delta diagnostics at debug level
	Logger *zap.Logger
}

// View is one viewer's reconciled state
type View struct {
	// RoomID is the tracked room, zero when none
	RoomID uint64

	// Game is the tracked room, nil until something about it has been applied
	Game *models.Game

	// Rooms is the lobby of joinable rooms
	Rooms []*models.Game

	// Version is the last authoritative version applied to Game
	Version uint64
}
