package mirror

import (
	"errors"

	"github.com/KirkDiggler/numberjack/internal/models"
)

// ErrRoomNotFound is returned when a room is not mirrored
var ErrRoomNotFound = errors.New("room not mirrored")

// SaveRoomInput contains parameters for saving a mirrored room
type SaveRoomInput struct {
	Game *models.Game
}

// GetRoomInput contains parameters for retrieving a mirrored room
type GetRoomInput struct {
	RoomID uint64
}

// ListRoomsInput contains parameters for listing mirrored rooms
type ListRoomsInput struct {
}

// ListRoomsOutput contains the mirrored rooms ordered by ID
type ListRoomsOutput struct {
	Games []*models.Game
}

// DeleteRoomInput contains parameters for forgetting a mirrored room
type DeleteRoomInput struct {
	RoomID uint64
}
