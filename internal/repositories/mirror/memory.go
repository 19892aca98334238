package mirror

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/KirkDiggler/numberjack/internal/models"
)

// memoryRepository implements the Repository interface in process memory
type memoryRepository struct {
	mu    sync.RWMutex
	rooms map[uint64]*models.Game
}

// NewMemory creates a new in-memory mirror repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		rooms: make(map[uint64]*models.Game),
	}
}

// SaveRoom stores a copy of the room
func (r *memoryRepository) SaveRoom(ctx context.Context, input *SaveRoomInput) error {
	if input == nil || input.Game == nil || input.Game.Room == nil {
		return errors.New("input and room cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[input.Game.Room.ID] = input.Game.Clone()
	return nil
}

// GetRoom retrieves a copy of a mirrored room
func (r *memoryRepository) GetRoom(ctx context.Context, input *GetRoomInput) (*models.Game, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.rooms[input.RoomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return game.Clone(), nil
}

// ListRooms retrieves copies of every mirrored room ordered by ID
func (r *memoryRepository) ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]*models.Game, 0, len(r.rooms))
	for _, game := range r.rooms {
		games = append(games, game.Clone())
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].Room.ID < games[j].Room.ID
	})

	return &ListRoomsOutput{Games: games}, nil
}

// DeleteRoom forgets a mirrored room
func (r *memoryRepository) DeleteRoom(ctx context.Context, input *DeleteRoomInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, input.RoomID)
	return nil
}
