package turn

// TurnError is a custom error type for rejected transitions
type TurnError string

// Error implements the error interface
func (e TurnError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig          TurnError = "config cannot be nil"
	ErrNilDiceRoller      TurnError = "dice roller cannot be nil"
	ErrNilGame            TurnError = "game cannot be nil"
	ErrRoomNotInProgress  TurnError = "room is not in progress"
	ErrRoomNotJoinable    TurnError = "room is not joinable"
	ErrRoomNotEnded       TurnError = "room has not ended"
	ErrRoomFull           TurnError = "room is at maximum capacity"
	ErrAlreadyJoined      TurnError = "player already in room"
	ErrNotParticipant     TurnError = "player not in room"
	ErrNotYourTurn        TurnError = "not your turn"
	ErrPlayerEliminated   TurnError = "player already eliminated"
	ErrTurnNotExpired     TurnError = "turn has not timed out"
	ErrNotCreator         TurnError = "only the creator can start the game"
	ErrNotEnoughPlayers   TurnError = "not enough players to start"
	ErrGameNotOver        TurnError = "game limit has not been reached"
	ErrNotWinner          TurnError = "only the winner can claim"
	ErrAlreadyClaimed     TurnError = "reward already claimed"
	ErrInvalidMaxNumber   TurnError = "max number out of range"
	ErrInvalidMode        TurnError = "unknown game mode"
	ErrInvalidModeValue   TurnError = "mode value must be positive"
	ErrInvalidTurnTimeout TurnError = "turn timeout must be positive"
)
