package mirror

import (
	"context"

	"github.com/KirkDiggler/numberjack/internal/models"
)

// Repository stores the relay's unauthoritative copy of each live room
type Repository interface {
	// SaveRoom persists a mirrored room
	SaveRoom(ctx context.Context, input *SaveRoomInput) error

	// GetRoom retrieves a mirrored room by ID
	GetRoom(ctx context.Context, input *GetRoomInput) (*models.Game, error)

	// ListRooms retrieves every mirrored room
	ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error)

	// DeleteRoom forgets a mirrored room
	DeleteRoom(ctx context.Context, input *DeleteRoomInput) error
}
