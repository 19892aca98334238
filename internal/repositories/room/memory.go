package room

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/KirkDiggler/numberjack/internal/models"
)

// memoryRepository implements the Repository interface in process memory
type memoryRepository struct {
	mu     sync.Mutex
	nextID uint64
	games  map[uint64]*models.Game
}

// NewMemory creates a new in-memory room repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		games: make(map[uint64]*models.Game),
	}
}

// CreateGame allocates the next room ID and stores the built game
func (r *memoryRepository) CreateGame(ctx context.Context, input *CreateGameInput) (*models.Game, error) {
	if input == nil || input.Build == nil {
		return nil, errors.New("input and build func cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	game, err := input.Build(r.nextID)
	if err != nil {
		return nil, err
	}
	if game == nil || game.Room == nil {
		return nil, errors.New("build func returned no room")
	}

	game.Room.ID = r.nextID
	game.Room.Version = 1
	r.games[game.Room.ID] = game.Clone()

	return game, nil
}

// GetGame retrieves a copy of a stored game
func (r *memoryRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.games[input.RoomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return game.Clone(), nil
}

// UpdateGame applies the mutation while holding the repository lock
func (r *memoryRepository) UpdateGame(ctx context.Context, input *UpdateGameInput) (*models.Game, error) {
	if input == nil || input.Apply == nil {
		return nil, errors.New("input and apply func cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.games[input.RoomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	next, err := input.Apply(current.Clone())
	if err != nil {
		return nil, err
	}
	if next == nil || next.Room == nil {
		return nil, errors.New("apply func returned no room")
	}

	next.Room.ID = current.Room.ID
	next.Room.Version = current.Room.Version + 1
	r.games[input.RoomID] = next.Clone()

	return next, nil
}

// ListGames retrieves games by status, ordered by room ID
func (r *memoryRepository) ListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	games := make([]*models.Game, 0, len(r.games))
	for _, game := range r.games {
		if input != nil && input.Status != "" && game.Room.Status != input.Status {
			continue
		}
		games = append(games, game.Clone())
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].Room.ID < games[j].Room.ID
	})

	return &ListGamesOutput{Games: games}, nil
}
