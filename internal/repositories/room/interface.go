package room

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/numberjack/internal/repositories/room Repository

import (
	"context"

	"github.com/KirkDiggler/numberjack/internal/models"
)

// Repository defines the interface for authoritative room persistence
type Repository interface {
	// CreateGame allocates the next room ID and stores the game built for it
	CreateGame(ctx context.Context, input *CreateGameInput) (*models.Game, error)

	// GetGame retrieves a game by room ID
	GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error)

	// UpdateGame applies a mutation to a stored game atomically and bumps its version
	UpdateGame(ctx context.Context, input *UpdateGameInput) (*models.Game, error)

	// ListGames retrieves every game with the given status
	ListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error)
}
