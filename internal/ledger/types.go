package ledger

import (
	"time"

	"github.com/KirkDiggler/numberjack/internal/models"
)

// CreateRoomInput contains the room settings
type CreateRoomInput struct {
	MaxNumber   int
	EntryFee    uint64
	Mode        models.GameMode
	ModeValue   int64
	TurnTimeout time.Duration
}

// CreateRoomOutput contains the ledger-assigned room
type CreateRoomOutput struct {
	Receipt
}

// RoomInput names the room a call targets
type RoomInput struct {
	RoomID uint64
}

// PlayerInput names a participant of a room
type PlayerInput struct {
	RoomID uint64
	Player string
}

// Receipt confirms a mutation
type Receipt struct {
	RoomID uint64

	// Version is the room's version after the mutation
	Version uint64
}

// PlayTurnOutput contains the confirmed draw
type PlayTurnOutput struct {
	Receipt

	Draws [2]int

	// Offset is the length of the signer's draw list before the pair was appended
	Offset int
}

type GetRoomByIDOutput struct {
	Game *models.Game
}

type GetAvailableRoomsInput struct {
}

type GetAvailableRoomsOutput struct {
	Games []*models.Game
}

type GetPlayerDrawsOutput struct {
	Draws []int
}

type GetIsEliminatedOutput struct {
	Eliminated bool
}
