package session

import (
	"context"

	"github.com/KirkDiggler/numberjack/internal/services/forcer"
	"github.com/KirkDiggler/numberjack/internal/services/reconciler"
)

// Session is one viewer's client side of the game. Actions are checked and applied
// to the local view right away, broadcast on the relay, and then submitted to the
// ledger in the background. Authoritative reads overwrite whatever the optimistic
// path guessed wrong.
type Session interface {
	// Connect opens the relay channel and starts the relay consumer and the refresh task.
	// Both run until Disconnect is called or ctx is done.
	Connect(ctx context.Context) error

	// Disconnect stops the background tasks and closes the relay channel
	Disconnect()

	// Address is the viewer's account, "" when no account is connected
	Address() string

	// View returns a copy of the reconciled view
	View() *reconciler.View

	// Evaluate returns the countdown and the actions the viewer may take now
	Evaluate() *forcer.Evaluation

	// Notice returns the current error notice, or nil once it has expired
	Notice() *Notice

	// RefreshNow reads the tracked room and the lobby from the ledger
	RefreshNow(ctx context.Context) error

	// CreateRoom creates a room on the ledger and tracks it once confirmed
	CreateRoom(ctx context.Context, input *CreateRoomInput) error

	// JoinRoom tracks a room and joins it
	JoinRoom(ctx context.Context, input *JoinRoomInput) error

	// LeaveRoom stops tracking the current room and leaves its relay group
	LeaveRoom(ctx context.Context) error

	// StartGame starts the tracked room
	StartGame(ctx context.Context) error

	// Draw plays the viewer's turn
	Draw(ctx context.Context) error

	// Skip forfeits the viewer's turn
	Skip(ctx context.Context) error

	// ForceAdvance skips a current player whose turn has timed out
	ForceAdvance(ctx context.Context) error

	// EndGame ends a room whose mode limit is reached
	EndGame(ctx context.Context) error

	// Claim claims the winner's reward
	Claim(ctx context.Context) error
}
