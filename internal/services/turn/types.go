package turn

import (
	"time"

	"github.com/KirkDiggler/numberjack/internal/dice"
	"github.com/KirkDiggler/numberjack/internal/models"
)

const (
	// DefaultMaxPlayers caps room size when Config.MaxPlayers is zero
	DefaultMaxPlayers = 10

	// DefaultMinPlayers is the fewest participants a game can start with
	DefaultMinPlayers = 2

	// MinMaxNumber and MaxMaxNumber bound the draw target
	MinMaxNumber = 21
	MaxMaxNumber = 100
)

// PlayerState is a participant's position in the turn cycle
type PlayerState string

const (
	PlayerStateWaiting    PlayerState = "Waiting"
	PlayerStateActiveTurn PlayerState = "ActiveTurn"
	PlayerStateBusted     PlayerState = "Busted"
	PlayerStateWon        PlayerState = "Won"
	PlayerStateSkipped    PlayerState = "Skipped"
)

// EventKind names something a transition did
type EventKind string

const (
	EventCreated      EventKind = "created"
	EventJoined       EventKind = "joined"
	EventStarted      EventKind = "started"
	EventDrew         EventKind = "drew"
	EventSkipped      EventKind = "skipped"
	EventForcedSkip   EventKind = "forced_skip"
	EventBusted       EventKind = "busted"
	EventTurnAdvanced EventKind = "turn_advanced"
	EventWon          EventKind = "won"
	EventEnded        EventKind = "ended"
	EventClaimed      EventKind = "claimed"
)

// Event is one step of a transition, in the order it happened
type Event struct {
	Kind   EventKind
	RoomID uint64

	// Player is the participant the event is about
	Player string

	// By is who caused the event when that differs from Player (forced skips)
	By string

	// Draws and Offset are set for EventDrew. Offset is the length of the
	// player's draw list before the pair was appended.
	Draws  [2]int
	Offset int

	// Round is set for EventTurnAdvanced
	Round int64

	At time.Time
}

// Config holds configuration for the turn machine
type Config struct {
	// DiceRoller produces draw values
	DiceRoller dice.Roller

	// MaxPlayers per room, defaults to DefaultMaxPlayers
	MaxPlayers int

	// MinPlayers needed to start, defaults to DefaultMinPlayers
	MinPlayers int
}

// TransitionOutput is the result of every accepted operation
type TransitionOutput struct {
	// Game is the new state; the input game is never modified
	Game *models.Game

	// Events lists what happened, in order
	Events []Event
}

// CreateInput contains parameters for creating a room
type CreateInput struct {
	RoomID      uint64
	Creator     string
	MaxNumber   int
	EntryFee    uint64
	Mode        models.GameMode
	ModeValue   int64
	TurnTimeout time.Duration
	Now         time.Time
}

// JoinInput contains parameters for joining a room
type JoinInput struct {
	Game   *models.Game
	Player string
	Now    time.Time
}

// StartInput contains parameters for starting a game
type StartInput struct {
	Game   *models.Game
	Caller string
	Now    time.Time
}

// DrawInput contains parameters for drawing
type DrawInput struct {
	Game   *models.Game
	Caller string
	Now    time.Time
}

// SkipInput contains parameters for skipping a turn
type SkipInput struct {
	Game   *models.Game
	Caller string
	Now    time.Time
}

// AdvanceTurnInput contains parameters for advancing the turn
type AdvanceTurnInput struct {
	Game *models.Game
	Now  time.Time
}

// ForceAdvanceInput contains parameters for forcing a stalled turn
type ForceAdvanceInput struct {
	Game   *models.Game
	Caller string
	Now    time.Time
}

// EndGameInput contains parameters for ending a game at its limit
type EndGameInput struct {
	Game   *models.Game
	Caller string
	Now    time.Time
}

// ClaimInput contains parameters for claiming the reward
type ClaimInput struct {
	Game   *models.Game
	Caller string
	Now    time.Time
}
