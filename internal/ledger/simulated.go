package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/common/clock"
	"github.com/KirkDiggler/numberjack/internal/dice"
	"github.com/KirkDiggler/numberjack/internal/models"
	roomRepo "github.com/KirkDiggler/numberjack/internal/repositories/room"
	"github.com/KirkDiggler/numberjack/internal/services/turn"
)

// SimulatedConfig holds configuration for the simulated ledger
type SimulatedConfig struct {
	// Repository stores authoritative rooms. Redis lets several processes share one ledger.
	Repository roomRepo.Repository

	// DiceRoller produces draws on the ledger side
	DiceRoller dice.Roller

	// Clock stamps turn times
	Clock clock.Clock

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	// MaxPlayers per room, defaults to turn.DefaultMaxPlayers
	MaxPlayers int

	// ConfirmDelay is how long a mutation waits before it is confirmed
	ConfirmDelay time.Duration
}

// Simulated is an authoritative ledger that runs the turn machine against a room repository
type Simulated struct {
	machine      turn.Machine
	repo         roomRepo.Repository
	clock        clock.Clock
	logger       *zap.Logger
	confirmDelay time.Duration
}

// NewSimulated creates a simulated ledger
func NewSimulated(cfg *SimulatedConfig) (*Simulated, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	machine, err := turn.New(&turn.Config{
		DiceRoller: cfg.DiceRoller,
		MaxPlayers: cfg.MaxPlayers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create turn machine: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Simulated{
		machine:      machine,
		repo:         cfg.Repository,
		clock:        cfg.Clock,
		logger:       logger,
		confirmDelay: cfg.ConfirmDelay,
	}, nil
}

// ClientFor returns a client that signs as address
func (s *Simulated) ClientFor(address string) (*simulatedClient, error) {
	if address == "" {
		return nil, ErrEmptyAddress
	}
	return &simulatedClient{ledger: s, address: address}, nil
}

// confirm waits out the confirmation delay
func (s *Simulated) confirm(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	if s.confirmDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.confirmDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrSubmission, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// transact runs one turn machine transition inside a repository update
func (s *Simulated) transact(ctx context.Context, roomID uint64, op string, signer string, step func(game *models.Game, now time.Time) (*turn.TransitionOutput, error)) (*models.Game, []turn.Event, error) {
	if err := s.confirm(ctx); err != nil {
		return nil, nil, err
	}

	var events []turn.Event
	game, err := s.repo.UpdateGame(ctx, &roomRepo.UpdateGameInput{
		RoomID: roomID,
		Apply: func(current *models.Game) (*models.Game, error) {
			out, err := step(current, s.clock.Now())
			if err != nil {
				return nil, err
			}
			events = out.Events
			return out.Game, nil
		},
	})
	if err != nil {
		s.logger.Info("transaction rejected",
			zap.String("op", op),
			zap.Uint64("room_id", roomID),
			zap.String("signer", signer),
			zap.Error(err),
		)
		return nil, nil, classify(err)
	}

	s.logger.Debug("transaction confirmed",
		zap.String("op", op),
		zap.Uint64("room_id", roomID),
		zap.String("signer", signer),
		zap.Uint64("version", game.Room.Version),
	)
	return game, events, nil
}

// classify maps repository and turn errors onto the ledger error taxonomy
func classify(err error) error {
	var turnErr turn.TurnError
	switch {
	case errors.As(err, &turnErr):
		return fmt.Errorf("%w: %w", ErrReverted, err)
	case errors.Is(err, roomRepo.ErrRoomNotFound):
		return fmt.Errorf("%w: %w", ErrReverted, ErrRoomNotFound)
	case errors.Is(err, ErrSubmission):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrSubmission, err)
	}
}

// simulatedClient implements Client for one signer
type simulatedClient struct {
	ledger  *Simulated
	address string
}

// compile-time check
var _ Client = (*simulatedClient)(nil)

func (c *simulatedClient) Address() string {
	return c.address
}

func (c *simulatedClient) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: nil input", ErrReverted)
	}

	if err := c.ledger.confirm(ctx); err != nil {
		return nil, err
	}

	game, err := c.ledger.repo.CreateGame(ctx, &roomRepo.CreateGameInput{
		Build: func(id uint64) (*models.Game, error) {
			out, err := c.ledger.machine.Create(&turn.CreateInput{
				RoomID:      id,
				Creator:     c.address,
				MaxNumber:   input.MaxNumber,
				EntryFee:    input.EntryFee,
				Mode:        input.Mode,
				ModeValue:   input.ModeValue,
				TurnTimeout: input.TurnTimeout,
				Now:         c.ledger.clock.Now(),
			})
			if err != nil {
				return nil, err
			}
			return out.Game, nil
		},
	})
	if err != nil {
		return nil, classify(err)
	}

	c.ledger.logger.Info("room created",
		zap.Uint64("room_id", game.Room.ID),
		zap.String("creator", c.address),
	)

	return &CreateRoomOutput{Receipt: receipt(game)}, nil
}

func (c *simulatedClient) JoinRoom(ctx context.Context, input *RoomInput) (*Receipt, error) {
	return c.mutate(ctx, input, "join", func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
		return c.ledger.machine.Join(&turn.JoinInput{Game: game, Player: c.address, Now: now})
	})
}

func (c *simulatedClient) StartGame(ctx context.Context, input *RoomInput) (*Receipt, error) {
	return c.mutate(ctx, input, "start", func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
		return c.ledger.machine.Start(&turn.StartInput{Game: game, Caller: c.address, Now: now})
	})
}

func (c *simulatedClient) PlayTurn(ctx context.Context, input *RoomInput) (*PlayTurnOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: nil input", ErrReverted)
	}

	game, events, err := c.ledger.transact(ctx, input.RoomID, "draw", c.address, func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
		return c.ledger.machine.Draw(&turn.DrawInput{Game: game, Caller: c.address, Now: now})
	})
	if err != nil {
		return nil, err
	}

	out := &PlayTurnOutput{Receipt: receipt(game)}
	for _, e := range events {
		if e.Kind == turn.EventDrew {
			out.Draws = e.Draws
			out.Offset = e.Offset
			break
		}
	}
	return out, nil
}

func (c *simulatedClient) SkipTurn(ctx context.Context, input *RoomInput) (*Receipt, error) {
	return c.mutate(ctx, input, "skip", func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
		return c.ledger.machine.Skip(&turn.SkipInput{Game: game, Caller: c.address, Now: now})
	})
}

func (c *simulatedClient) ForceAdvance(ctx context.Context, input *RoomInput) (*Receipt, error) {
	return c.mutate(ctx, input, "force_advance", func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
		return c.ledger.machine.ForceAdvance(&turn.ForceAdvanceInput{Game: game, Caller: c.address, Now: now})
	})
}

func (c *simulatedClient) EndGame(ctx context.Context, input *RoomInput) (*Receipt, error) {
	return c.mutate(ctx, input, "end", func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
		return c.ledger.machine.EndGame(&turn.EndGameInput{Game: game, Caller: c.address, Now: now})
	})
}

func (c *simulatedClient) ClaimReward(ctx context.Context, input *RoomInput) (*Receipt, error) {
	return c.mutate(ctx, input, "claim", func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
		return c.ledger.machine.Claim(&turn.ClaimInput{Game: game, Caller: c.address, Now: now})
	})
}

func (c *simulatedClient) GetRoomByID(ctx context.Context, input *RoomInput) (*GetRoomByIDOutput, error) {
	game, err := c.read(ctx, input)
	if err != nil {
		return nil, err
	}
	return &GetRoomByIDOutput{Game: game}, nil
}

func (c *simulatedClient) GetAvailableRooms(ctx context.Context, input *GetAvailableRoomsInput) (*GetAvailableRoomsOutput, error) {
	out, err := c.ledger.repo.ListGames(ctx, &roomRepo.ListGamesInput{Status: models.RoomStatusNotStarted})
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return &GetAvailableRoomsOutput{Games: out.Games}, nil
}

func (c *simulatedClient) GetPlayerDraws(ctx context.Context, input *PlayerInput) (*GetPlayerDrawsOutput, error) {
	player, err := c.readPlayer(ctx, input)
	if err != nil {
		return nil, err
	}
	return &GetPlayerDrawsOutput{Draws: player.Draws}, nil
}

func (c *simulatedClient) GetIsEliminated(ctx context.Context, input *PlayerInput) (*GetIsEliminatedOutput, error) {
	player, err := c.readPlayer(ctx, input)
	if err != nil {
		return nil, err
	}
	return &GetIsEliminatedOutput{Eliminated: !player.Active}, nil
}

func (c *simulatedClient) mutate(ctx context.Context, input *RoomInput, op string, step func(*models.Game, time.Time) (*turn.TransitionOutput, error)) (*Receipt, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: nil input", ErrReverted)
	}

	game, _, err := c.ledger.transact(ctx, input.RoomID, op, c.address, step)
	if err != nil {
		return nil, err
	}

	r := receipt(game)
	return &r, nil
}

func (c *simulatedClient) read(ctx context.Context, input *RoomInput) (*models.Game, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	game, err := c.ledger.repo.GetGame(ctx, &roomRepo.GetGameInput{RoomID: input.RoomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to read room: %w", err)
	}
	return game, nil
}

func (c *simulatedClient) readPlayer(ctx context.Context, input *PlayerInput) (*models.Player, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	game, err := c.read(ctx, &RoomInput{RoomID: input.RoomID})
	if err != nil {
		return nil, err
	}

	player := game.Player(input.Player)
	if player == nil {
		return nil, ErrNotInRoom
	}
	return player, nil
}

func receipt(game *models.Game) Receipt {
	return Receipt{RoomID: game.Room.ID, Version: game.Room.Version}
}
