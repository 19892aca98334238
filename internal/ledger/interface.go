package ledger

//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/KirkDiggler/numberjack/internal/ledger Client

import (
	"context"
)

// Client talks to the authoritative ledger on behalf of one account.
// Mutations return once the ledger has confirmed them. Reads never mutate.
type Client interface {
	// Address is the account the client signs for
	Address() string

	// CreateRoom creates a room with the signer as creator and first participant
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// JoinRoom adds the signer to a room that has not started
	JoinRoom(ctx context.Context, input *RoomInput) (*Receipt, error)

	// StartGame starts a room the signer created
	StartGame(ctx context.Context, input *RoomInput) (*Receipt, error)

	// PlayTurn draws two numbers for the signer
	PlayTurn(ctx context.Context, input *RoomInput) (*PlayTurnOutput, error)

	// SkipTurn forfeits the signer's turn
	SkipTurn(ctx context.Context, input *RoomInput) (*Receipt, error)

	// ForceAdvance skips a current player whose turn has timed out
	ForceAdvance(ctx context.Context, input *RoomInput) (*Receipt, error)

	// EndGame ends a room whose mode limit is reached
	EndGame(ctx context.Context, input *RoomInput) (*Receipt, error)

	// ClaimReward claims the winner's reward
	ClaimReward(ctx context.Context, input *RoomInput) (*Receipt, error)

	// GetRoomByID reads a room and its players
	GetRoomByID(ctx context.Context, input *RoomInput) (*GetRoomByIDOutput, error)

	// GetAvailableRooms reads every room that can still be joined
	GetAvailableRooms(ctx context.Context, input *GetAvailableRoomsInput) (*GetAvailableRoomsOutput, error)

	// GetPlayerDraws reads a participant's draws
	GetPlayerDraws(ctx context.Context, input *PlayerInput) (*GetPlayerDrawsOutput, error)

	// GetIsEliminated reads whether a participant is out
	GetIsEliminated(ctx context.Context, input *PlayerInput) (*GetIsEliminatedOutput, error)
}
