package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/common/clock"
	"github.com/KirkDiggler/numberjack/internal/ledger"
	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/relay"
	"github.com/KirkDiggler/numberjack/internal/services/messaging"
	"github.com/KirkDiggler/numberjack/internal/services/reconciler"
)

const (
	// DefaultPollInterval is how often the tracked room is re-read without any trigger
	DefaultPollInterval = 10 * time.Second

	// DefaultRefreshDebounce is how long relay traffic must be quiet before it triggers a read
	DefaultRefreshDebounce = 500 * time.Millisecond

	// DefaultNoticeWindow is how long an error notice stays visible
	DefaultNoticeWindow = 3 * time.Second
)

// Config holds configuration for a session
type Config struct {
	// Ledger is the connected account. Nil means read-only: every action fails with ErrNoAccount.
	Ledger ledger.Client

	// Channel is the relay connection
	Channel relay.Channel

	// Reconciler defaults to a fresh reconciler
	Reconciler reconciler.Reconciler

	// Messaging produces notice text, defaults to the messaging service
	Messaging messaging.Service

	// Clock defaults to the system clock
	Clock clock.Clock

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	// MaxPlayers must match the ledger's room size, defaults to turn.DefaultMaxPlayers
	MaxPlayers int

	PollInterval    time.Duration
	RefreshDebounce time.Duration
	NoticeWindow    time.Duration
}

// Notice is a short-lived message for the viewer about a failed action
type Notice struct {
	Title   string
	Message string

	// Err is the failure behind the notice
	Err error

	At time.Time
}

// CreateRoomInput contains the room settings
type CreateRoomInput struct {
	MaxNumber   int
	EntryFee    uint64
	Mode        models.GameMode
	ModeValue   int64
	TurnTimeout time.Duration
}

// JoinRoomInput names the room to join
type JoinRoomInput struct {
	RoomID uint64
}
