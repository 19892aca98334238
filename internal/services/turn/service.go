package turn

import (
	"time"

	"github.com/KirkDiggler/numberjack/internal/dice"
	"github.com/KirkDiggler/numberjack/internal/models"
)

// service implements the Machine interface
type service struct {
	roller     dice.Roller
	maxPlayers int
	minPlayers int
}

// New creates a new turn machine
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}

	maxPlayers := cfg.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}

	minPlayers := cfg.MinPlayers
	if minPlayers <= 0 {
		minPlayers = DefaultMinPlayers
	}

	return &service{
		roller:     cfg.DiceRoller,
		maxPlayers: maxPlayers,
		minPlayers: minPlayers,
	}, nil
}

// Create builds a new room with its creator as the first participant
func (s *service) Create(input *CreateInput) (*TransitionOutput, error) {
	if input == nil {
		return nil, ErrNilGame
	}

	if input.MaxNumber < MinMaxNumber || input.MaxNumber > MaxMaxNumber {
		return nil, ErrInvalidMaxNumber
	}

	if input.Mode != models.GameModeRounds && input.Mode != models.GameModeTimeBased {
		return nil, ErrInvalidMode
	}

	if input.ModeValue <= 0 {
		return nil, ErrInvalidModeValue
	}

	if input.TurnTimeout <= 0 {
		return nil, ErrInvalidTurnTimeout
	}

	game := &models.Game{
		Room: &models.Room{
			ID:          input.RoomID,
			Creator:     input.Creator,
			Players:     []string{input.Creator},
			Mode:        input.Mode,
			ModeValue:   input.ModeValue,
			MaxNumber:   input.MaxNumber,
			Status:      models.RoomStatusNotStarted,
			EntryFee:    input.EntryFee,
			TurnTimeout: input.TurnTimeout,
		},
		Players: []*models.Player{models.NewPlayer(input.Creator)},
	}

	return &TransitionOutput{
		Game: game,
		Events: []Event{{
			Kind:   EventCreated,
			RoomID: input.RoomID,
			Player: input.Creator,
			At:     input.Now,
		}},
	}, nil
}

// Join adds a participant to a room that has not started
func (s *service) Join(input *JoinInput) (*TransitionOutput, error) {
	if input == nil || input.Game == nil || input.Game.Room == nil {
		return nil, ErrNilGame
	}

	room := input.Game.Room
	if room.Status != models.RoomStatusNotStarted {
		return nil, ErrRoomNotJoinable
	}

	if room.HasPlayer(input.Player) {
		return nil, ErrAlreadyJoined
	}

	if len(room.Players) >= s.maxPlayers {
		return nil, ErrRoomFull
	}

	game := input.Game.Clone()
	game.Room.Players = append(game.Room.Players, input.Player)
	game.Players = append(game.Players, models.NewPlayer(input.Player))

	return &TransitionOutput{
		Game: game,
		Events: []Event{{
			Kind:   EventJoined,
			RoomID: room.ID,
			Player: input.Player,
			At:     input.Now,
		}},
	}, nil
}

// Start moves a room to InProgress and hands the first turn to the first participant
func (s *service) Start(input *StartInput) (*TransitionOutput, error) {
	if input == nil || input.Game == nil || input.Game.Room == nil {
		return nil, ErrNilGame
	}

	room := input.Game.Room
	if room.Status != models.RoomStatusNotStarted {
		return nil, ErrRoomNotJoinable
	}

	if room.Creator != input.Caller {
		return nil, ErrNotCreator
	}

	if len(room.Players) < s.minPlayers {
		return nil, ErrNotEnoughPlayers
	}

	game := input.Game.Clone()
	game.Room.Status = models.RoomStatusInProgress
	game.Room.StartTime = input.Now
	game.Room.LastTurnAt = input.Now
	game.Room.CurrentPlayerIndex = 0
	game.Room.CurrentRound = 1

	return &TransitionOutput{
		Game: game,
		Events: []Event{{
			Kind:   EventStarted,
			RoomID: room.ID,
			Player: game.Room.CurrentPlayer(),
			Round:  1,
			At:     input.Now,
		}},
	}, nil
}

// Draw adds two numbers to the current player's total
func (s *service) Draw(input *DrawInput) (*TransitionOutput, error) {
	if input == nil || input.Game == nil || input.Game.Room == nil {
		return nil, ErrNilGame
	}

	if err := checkTurn(input.Game, input.Caller); err != nil {
		return nil, err
	}

	game := input.Game.Clone()
	room := game.Room
	player := game.Player(input.Caller)

	sides := DrawSides(room.MaxNumber)
	first, second := s.roller.Roll(sides), s.roller.Roll(sides)

	offset := len(player.Draws)
	player.Draws = append(player.Draws, first, second)
	player.Total += first + second

	events := []Event{{
		Kind:   EventDrew,
		RoomID: room.ID,
		Player: player.Address,
		Draws:  [2]int{first, second},
		Offset: offset,
		At:     input.Now,
	}}

	switch {
	case player.Total == room.MaxNumber:
		events = append(events, end(game, player.Address, input.Now)...)
	case player.Total > room.MaxNumber:
		player.Active = false
		events = append(events, Event{
			Kind:   EventBusted,
			RoomID: room.ID,
			Player: player.Address,
			At:     input.Now,
		})
		events = append(events, advance(game, input.Now)...)
	default:
		events = append(events, advance(game, input.Now)...)
	}

	return &TransitionOutput{Game: game, Events: events}, nil
}

// Skip forfeits the current player's turn
func (s *service) Skip(input *SkipInput) (*TransitionOutput, error) {
	if input == nil || input.Game == nil || input.Game.Room == nil {
		return nil, ErrNilGame
	}

	if err := checkTurn(input.Game, input.Caller); err != nil {
		return nil, err
	}

	game := input.Game.Clone()
	game.Player(input.Caller).HasSkippedTurn = true

	events := []Event{{
		Kind:   EventSkipped,
		RoomID: game.Room.ID,
		Player: input.Caller,
		At:     input.Now,
	}}
	events = append(events, advance(game, input.Now)...)

	return &TransitionOutput{Game: game, Events: events}, nil
}

// AdvanceTurn hands the turn to the next active participant
func (s *service) AdvanceTurn(input *AdvanceTurnInput) (*TransitionOutput, error) {
	if input == nil || input.Game == nil || input.Game.Room == nil {
		return nil, ErrNilGame
	}

	if input.Game.Room.Status != models.RoomStatusInProgress {
		return nil, ErrRoomNotInProgress
	}

	game := input.Game.Clone()
	events := advance(game, input.Now)

	return &TransitionOutput{Game: game, Events: events}, nil
}

// ForceAdvance skips an unresponsive current player once their turn has timed out
func (s *service) ForceAdvance(input *ForceAdvanceInput) (*TransitionOutput, error) {
	if input == nil || input.Game == nil || input.Game.Room == nil {
		return nil, ErrNilGame
	}

	room := input.Game.Room
	if room.Status != models.RoomStatusInProgress {
		return nil, ErrRoomNotInProgress
	}

	if !room.HasPlayer(input.Caller) {
		return nil, ErrNotParticipant
	}

	if input.Now.Sub(room.LastTurnAt) < room.TurnTimeout {
		return nil, ErrTurnNotExpired
	}

	game := input.Game.Clone()
	stalled := game.Room.CurrentPlayer()
	if p := game.Player(stalled); p != nil {
		p.HasSkippedTurn = true
	}

	events := []Event{{
		Kind:   EventForcedSkip,
		RoomID: room.ID,
		Player: stalled,
		By:     input.Caller,
		At:     input.Now,
	}}
	events = append(events, advance(game, input.Now)...)

	return &TransitionOutput{Game: game, Events: events}, nil
}

// EndGame closes a room whose round or time limit has been reached
func (s *service) EndGame(input *EndGameInput) (*TransitionOutput, error) {
	if input == nil || input.Game == nil || input.Game.Room == nil {
		return nil, ErrNilGame
	}

	room := input.Game.Room
	if room.Status != models.RoomStatusInProgress {
		return nil, ErrRoomNotInProgress
	}

	if !room.HasPlayer(input.Caller) {
		return nil, ErrNotParticipant
	}

	if !room.IsOver(input.Now) {
		return nil, ErrGameNotOver
	}

	game := input.Game.Clone()
	events := end(game, leader(game), input.Now)

	return &TransitionOutput{Game: game, Events: events}, nil
}

// Claim marks the winner's reward as claimed
func (s *service) Claim(input *ClaimInput) (*TransitionOutput, error) {
	if input == nil || input.Game == nil || input.Game.Room == nil {
		return nil, ErrNilGame
	}

	room := input.Game.Room
	if room.Status != models.RoomStatusEnded {
		return nil, ErrRoomNotEnded
	}

	if room.Winner == "" || room.Winner != input.Caller {
		return nil, ErrNotWinner
	}

	winner := input.Game.Player(input.Caller)
	if winner == nil {
		return nil, ErrNotParticipant
	}

	if winner.Claimed {
		return nil, ErrAlreadyClaimed
	}

	game := input.Game.Clone()
	game.Player(input.Caller).Claimed = true

	return &TransitionOutput{
		Game: game,
		Events: []Event{{
			Kind:   EventClaimed,
			RoomID: room.ID,
			Player: input.Caller,
			At:     input.Now,
		}},
	}, nil
}

// checkTurn validates that caller owns the current turn
func checkTurn(game *models.Game, caller string) error {
	room := game.Room
	if room.Status != models.RoomStatusInProgress {
		return ErrRoomNotInProgress
	}

	player := game.Player(caller)
	if player == nil || !room.HasPlayer(caller) {
		return ErrNotParticipant
	}

	if !player.Active {
		return ErrPlayerEliminated
	}

	if room.CurrentPlayer() != caller {
		return ErrNotYourTurn
	}

	return nil
}

// advance scans forward from the current index for the next active participant.
// Wrapping past the end of the list starts a new round. When at most one active
// participant remains the room ends with that participant as winner.
func advance(game *models.Game, now time.Time) []Event {
	room := game.Room
	n := len(room.Players)
	if n == 0 {
		return end(game, "", now)
	}

	origin := room.CurrentPlayerIndex
	next := -1
	wrapped := false
	for step := 1; step < n; step++ {
		idx := (origin + step) % n
		if p := game.Player(room.Players[idx]); p != nil && p.Active {
			next = idx
			wrapped = origin+step >= n
			break
		}
	}

	var events []Event
	if next >= 0 {
		room.CurrentPlayerIndex = next
		room.LastTurnAt = now
		if wrapped {
			room.CurrentRound++
			for _, p := range game.Players {
				p.HasSkippedTurn = false
			}
		}
		events = append(events, Event{
			Kind:   EventTurnAdvanced,
			RoomID: room.ID,
			Player: room.Players[next],
			Round:  room.CurrentRound,
			At:     now,
		})
	}

	active := game.ActivePlayers()
	if len(active) <= 1 {
		winner := ""
		if len(active) == 1 {
			winner = active[0]
		}
		events = append(events, end(game, winner, now)...)
	}

	return events
}

// end moves the room to Ended and records the winner, if any
func end(game *models.Game, winner string, now time.Time) []Event {
	room := game.Room
	room.Status = models.RoomStatusEnded
	room.Winner = winner

	var events []Event
	if winner != "" {
		events = append(events, Event{
			Kind:   EventWon,
			RoomID: room.ID,
			Player: winner,
			At:     now,
		})
	}

	return append(events, Event{
		Kind:   EventEnded,
		RoomID: room.ID,
		Player: winner,
		At:     now,
	})
}

// leader returns the active participant with the highest total, first in join order on ties
func leader(game *models.Game) string {
	best := ""
	bestTotal := -1
	for _, addr := range game.ActivePlayers() {
		if p := game.Player(addr); p.Total > bestTotal {
			best = addr
			bestTotal = p.Total
		}
	}
	return best
}
