package relay

import (
	"encoding/json"
	"fmt"
)

// RelayError is a custom error type for relay errors
type RelayError string

// Error implements the error interface
func (e RelayError) Error() string {
	return string(e)
}

const (
	ErrUnknownType  RelayError = "unknown relay message type"
	ErrMalformed    RelayError = "malformed relay message"
	ErrNotConnected RelayError = "relay channel is not connected"
	ErrNilConfig    RelayError = "config cannot be nil"
	ErrEmptyURL     RelayError = "relay url cannot be empty"
)

// Envelope is the wire frame every message travels in
type Envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Encode wraps a message in its envelope
func Encode(msg Message) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", ErrMalformed)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", msg.Type(), err)
	}

	return json.Marshal(&Envelope{Type: msg.Type(), Data: data})
}

// Decode parses a frame into its message variant. Unknown types are an error.
func Decode(frame []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var msg Message
	switch env.Type {
	case TypeCreateRoom:
		msg = &CreateRoom{}
	case TypeJoinRoom:
		msg = &JoinRoom{}
	case TypeLeaveRoom:
		msg = &LeaveRoom{}
	case TypeStartGame:
		msg = &StartGame{}
	case TypeAdvanceTurn:
		msg = &AdvanceTurn{}
	case TypePlayerDraw:
		msg = &PlayerDraw{}
	case TypePlayerSkip:
		msg = &PlayerSkip{}
	case TypePlayerLost:
		msg = &PlayerLost{}
	case TypePlayerWin:
		msg = &PlayerWin{}
	case TypePlayerClaim:
		msg = &PlayerClaim{}
	case TypeCloseRoom:
		msg = &CloseRoom{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	if len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: %s has no data", ErrMalformed, env.Type)
	}

	if err := json.Unmarshal(env.Data, msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Type, err)
	}

	if env.Type == TypeCreateRoom {
		if cr := msg.(*CreateRoom); cr.Game == nil || cr.Game.Room == nil {
			return nil, fmt.Errorf("%w: createRoom without room", ErrMalformed)
		}
	}

	return msg, nil
}
