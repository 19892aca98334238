package relay

import (
	"time"

	"github.com/KirkDiggler/numberjack/internal/models"
)

// MessageType tags a relay message on the wire
type MessageType string

const (
	TypeCreateRoom  MessageType = "createRoom"
	TypeJoinRoom    MessageType = "joinRoom"
	TypeLeaveRoom   MessageType = "leaveRoom"
	TypeStartGame   MessageType = "startGame"
	TypeAdvanceTurn MessageType = "advanceTurn"
	TypePlayerDraw  MessageType = "playerDraw"
	TypePlayerSkip  MessageType = "playerSkip"
	TypePlayerLost  MessageType = "playerLost"
	TypePlayerWin   MessageType = "playerWin"
	TypePlayerClaim MessageType = "playerClaim"
	TypeCloseRoom   MessageType = "closeRoom"
)

// Message is one of the closed set of relay messages defined in this file
type Message interface {
	// Type is the wire tag of the message
	Type() MessageType

	// Room is the ID of the room the message is about
	Room() uint64

	isMessage()
}

// CreateRoom announces a freshly created room to the lobby
type CreateRoom struct {
	Game *models.Game `json:"room"`
}

// JoinRoom announces a participant joining a room
type JoinRoom struct {
	RoomID uint64 `json:"roomId"`
	Player string `json:"player"`
}

// LeaveRoom removes the sender from a room's broadcast group
type LeaveRoom struct {
	RoomID        uint64 `json:"roomId"`
	PlayerAddress string `json:"playerAddress"`
}

// StartGame announces that a room moved to InProgress
type StartGame struct {
	RoomID    uint64    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
}

// AdvanceTurn hands the turn to PlayerAddress. Timestamp, when present, is the new turn start.
type AdvanceTurn struct {
	RoomID        uint64     `json:"roomId"`
	PlayerAddress string     `json:"playerAddress"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	Round         int64      `json:"round,omitempty"`
}

// PlayerDraw carries both numbers of a draw. Offset is the length of the player's
// draw list before the pair was appended.
type PlayerDraw struct {
	RoomID        uint64 `json:"roomId"`
	PlayerAddress string `json:"playerAddress"`
	Draws         [2]int `json:"draws"`
	Offset        int    `json:"offset"`
}

// PlayerSkip announces a skipped turn, Forced when another participant forced it
type PlayerSkip struct {
	RoomID        uint64 `json:"roomId"`
	PlayerAddress string `json:"playerAddress"`
	Forced        bool   `json:"forced,omitempty"`
}

// PlayerLost announces an elimination
type PlayerLost struct {
	RoomID        uint64 `json:"roomId"`
	PlayerAddress string `json:"playerAddress"`
}

// PlayerWin announces the winner
type PlayerWin struct {
	RoomID        uint64 `json:"roomId"`
	PlayerAddress string `json:"playerAddress"`
}

// PlayerClaim announces the winner claimed the reward
type PlayerClaim struct {
	RoomID        uint64 `json:"roomId"`
	PlayerAddress string `json:"playerAddress"`
}

// CloseRoom announces the room is finished and may be forgotten
type CloseRoom struct {
	RoomID uint64 `json:"roomId"`
}

func (m *CreateRoom) Type() MessageType  { return TypeCreateRoom }
func (m *JoinRoom) Type() MessageType    { return TypeJoinRoom }
func (m *LeaveRoom) Type() MessageType   { return TypeLeaveRoom }
func (m *StartGame) Type() MessageType   { return TypeStartGame }
func (m *AdvanceTurn) Type() MessageType { return TypeAdvanceTurn }
func (m *PlayerDraw) Type() MessageType  { return TypePlayerDraw }
func (m *PlayerSkip) Type() MessageType  { return TypePlayerSkip }
func (m *PlayerLost) Type() MessageType  { return TypePlayerLost }
func (m *PlayerWin) Type() MessageType   { return TypePlayerWin }
func (m *PlayerClaim) Type() MessageType { return TypePlayerClaim }
func (m *CloseRoom) Type() MessageType   { return TypeCloseRoom }

func (m *CreateRoom) Room() uint64 {
	if m.Game == nil || m.Game.Room == nil {
		return 0
	}
	return m.Game.Room.ID
}
func (m *JoinRoom) Room() uint64    { return m.RoomID }
func (m *LeaveRoom) Room() uint64   { return m.RoomID }
func (m *StartGame) Room() uint64   { return m.RoomID }
func (m *AdvanceTurn) Room() uint64 { return m.RoomID }
func (m *PlayerDraw) Room() uint64  { return m.RoomID }
func (m *PlayerSkip) Room() uint64  { return m.RoomID }
func (m *PlayerLost) Room() uint64  { return m.RoomID }
func (m *PlayerWin) Room() uint64   { return m.RoomID }
func (m *PlayerClaim) Room() uint64 { return m.RoomID }
func (m *CloseRoom) Room() uint64   { return m.RoomID }

func (*CreateRoom) isMessage()  {}
func (*JoinRoom) isMessage()    {}
func (*LeaveRoom) isMessage()   {}
func (*StartGame) isMessage()   {}
func (*AdvanceTurn) isMessage() {}
func (*PlayerDraw) isMessage()  {}
func (*PlayerSkip) isMessage()  {}
func (*PlayerLost) isMessage()  {}
func (*PlayerWin) isMessage()   {}
func (*PlayerClaim) isMessage() {}
func (*CloseRoom) isMessage()   {}

// Player returns the address a message is about, or "" for room-level messages
func Player(msg Message) string {
	switch m := msg.(type) {
	case *JoinRoom:
		return m.Player
	case *LeaveRoom:
		return m.PlayerAddress
	case *AdvanceTurn:
		return m.PlayerAddress
	case *PlayerDraw:
		return m.PlayerAddress
	case *PlayerSkip:
		return m.PlayerAddress
	case *PlayerLost:
		return m.PlayerAddress
	case *PlayerWin:
		return m.PlayerAddress
	case *PlayerClaim:
		return m.PlayerAddress
	case *CreateRoom:
		if m.Game != nil && m.Game.Room != nil {
			return m.Game.Room.Creator
		}
		return ""
	case *StartGame, *CloseRoom:
		return ""
	default:
		return ""
	}
}
