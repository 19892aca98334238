package models

import (
	"time"
)

// RoomStatus represents where a room is in its lifecycle
type RoomStatus string

const (
	// RoomStatusNotStarted indicates a room is waiting for players to join
	RoomStatusNotStarted RoomStatus = "NotStarted"

	// RoomStatusInProgress indicates turns are being played
	RoomStatusInProgress RoomStatus = "InProgress"

	// RoomStatusEnded indicates the room is finished and accepts no more turns
	RoomStatusEnded RoomStatus = "Ended"
)

// rank orders statuses so transitions can be checked for monotonicity
func (s RoomStatus) rank() int {
	switch s {
	case RoomStatusNotStarted:
		return 0
	case RoomStatusInProgress:
		return 1
	case RoomStatusEnded:
		return 2
	default:
		return -1
	}
}

// IsValid reports whether the status is one of the known values
func (s RoomStatus) IsValid() bool {
	return s.rank() >= 0
}

// CanMoveTo reports whether moving from s to next keeps the status monotonic
func (s RoomStatus) CanMoveTo(next RoomStatus) bool {
	return next.IsValid() && next.rank() >= s.rank()
}

// GameMode decides when a room runs out of play
type GameMode string

const (
	// GameModeRounds ends the game after ModeValue full rounds
	GameModeRounds GameMode = "Rounds"

	// GameModeTimeBased ends the game ModeValue seconds after the start
	GameModeTimeBased GameMode = "TimeBased"
)

// Room is one instance of the game
type Room struct {
	// ID is the ledger-assigned identifier
	ID uint64 `json:"id"`

	// Creator is the address that created the room
	Creator string `json:"creator"`

	// Players are participant addresses in join order, which is also turn order
	Players []string `json:"players"`

	// Mode decides when the game runs out of play
	Mode GameMode `json:"mode"`

	// ModeValue is a round count or a duration in seconds, depending on Mode
	ModeValue int64 `json:"modeValue"`

	// CurrentRound is the 1-based round number once the game has started
	CurrentRound int64 `json:"currentRound"`

	// MaxNumber is the draw target
	MaxNumber int `json:"maxNumber"`

	// Status is the lifecycle state of the room
	Status RoomStatus `json:"status"`

	// EntryFee is paid by every participant on create and join
	EntryFee uint64 `json:"entryFee"`

	// StartTime is when the game moved to InProgress
	StartTime time.Time `json:"startTime"`

	// CurrentPlayerIndex indexes Players
	CurrentPlayerIndex int `json:"currentPlayerIndex"`

	// LastTurnAt is when the current turn began
	LastTurnAt time.Time `json:"lastTurnAt"`

	// TurnTimeout is how long the current player has before anyone may force the turn
	TurnTimeout time.Duration `json:"turnTimeout"`

	// Winner is set once the room has ended with a winner
	Winner string `json:"winner,omitempty"`

	// Version counts authoritative mutations of the room
	Version uint64 `json:"version"`
}

// CurrentPlayer returns the address whose turn it is, or "" if the index is out of range
func (r *Room) CurrentPlayer() string {
	if r == nil || r.CurrentPlayerIndex < 0 || r.CurrentPlayerIndex >= len(r.Players) {
		return ""
	}
	return r.Players[r.CurrentPlayerIndex]
}

// IndexOf returns the join-order index of address, or -1
func (r *Room) IndexOf(address string) int {
	if r == nil {
		return -1
	}
	for i, p := range r.Players {
		if p == address {
			return i
		}
	}
	return -1
}

// HasPlayer reports whether address is a participant
func (r *Room) HasPlayer(address string) bool {
	return r.IndexOf(address) >= 0
}

// TurnDeadline is when the current turn may be forced
func (r *Room) TurnDeadline() time.Time {
	return r.LastTurnAt.Add(r.TurnTimeout)
}

// ModeDeadline is when a TimeBased room runs out of time
func (r *Room) ModeDeadline() time.Time {
	return r.StartTime.Add(time.Duration(r.ModeValue) * time.Second)
}

// IsOver reports whether the mode limit has been reached at now
func (r *Room) IsOver(now time.Time) bool {
	if r == nil || r.Status != RoomStatusInProgress {
		return false
	}
	switch r.Mode {
	case GameModeRounds:
		return r.CurrentRound > r.ModeValue
	case GameModeTimeBased:
		return !now.Before(r.ModeDeadline())
	default:
		return false
	}
}

// Clone returns a deep copy of the room
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Players = append([]string(nil), r.Players...)
	return &c
}
