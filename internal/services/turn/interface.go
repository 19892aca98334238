package turn

import "github.com/KirkDiggler/numberjack/internal/models"

// Machine computes the next legal game state from the current one and a single action.
// Implementations perform no I/O. Every operation either returns a new game and the
// events it produced, or an error with the input left untouched.
type Machine interface {
	// Create builds a new room with its creator as the first participant
	Create(input *CreateInput) (*TransitionOutput, error)

	// Join adds a participant to a room that has not started
	Join(input *JoinInput) (*TransitionOutput, error)

	// Start moves a room to InProgress and hands the first turn to the first participant
	Start(input *StartInput) (*TransitionOutput, error)

	// Draw adds two numbers to the current player's total
	Draw(input *DrawInput) (*TransitionOutput, error)

	// Skip forfeits the current player's turn
	Skip(input *SkipInput) (*TransitionOutput, error)

	// AdvanceTurn hands the turn to the next active participant
	AdvanceTurn(input *AdvanceTurnInput) (*TransitionOutput, error)

	// ForceAdvance skips an unresponsive current player once their turn has timed out
	ForceAdvance(input *ForceAdvanceInput) (*TransitionOutput, error)

	// EndGame closes a room whose round or time limit has been reached
	EndGame(input *EndGameInput) (*TransitionOutput, error)

	// Claim marks the winner's reward as claimed
	Claim(input *ClaimInput) (*TransitionOutput, error)
}

// compile-time check
var _ Machine = (*service)(nil)

// PlayerStateOf derives a participant's turn state from a game
func PlayerStateOf(game *models.Game, address string) PlayerState {
	player := game.Player(address)
	if player == nil || game.Room == nil {
		return ""
	}
	room := game.Room
	switch {
	case room.Winner != "" && room.Winner == address:
		return PlayerStateWon
	case !player.Active:
		return PlayerStateBusted
	case room.Status == models.RoomStatusInProgress && room.CurrentPlayer() == address:
		return PlayerStateActiveTurn
	case player.HasSkippedTurn:
		return PlayerStateSkipped
	default:
		return PlayerStateWaiting
	}
}

// DrawSides is the die size used for each of the two numbers in a draw.
// A pair can reach the target but never overshoot it from zero in one draw.
func DrawSides(maxNumber int) int {
	sides := (maxNumber + 3) / 4
	if sides < 1 {
		return 1
	}
	return sides
}
