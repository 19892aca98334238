package room

import (
	"errors"

	"github.com/KirkDiggler/numberjack/internal/models"
)

var (
	// ErrRoomNotFound is returned when a room does not exist
	ErrRoomNotFound = errors.New("room not found")

	// ErrConflict is returned when an update kept losing to concurrent writers
	ErrConflict = errors.New("room was modified concurrently")
)

// BuildFunc builds the initial game for a freshly allocated room ID
type BuildFunc func(id uint64) (*models.Game, error)

// ApplyFunc computes the next game from the stored one. Returning an error aborts the update.
type ApplyFunc func(current *models.Game) (*models.Game, error)

type CreateGameInput struct {
	Build BuildFunc
}

type GetGameInput struct {
	RoomID uint64
}

type UpdateGameInput struct {
	RoomID uint64
	Apply  ApplyFunc
}

type ListGamesInput struct {
	// Status filters the result, all statuses when empty
	Status models.RoomStatus
}

type ListGamesOutput struct {
	Games []*models.Game
}
