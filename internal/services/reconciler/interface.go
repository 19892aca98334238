package reconciler

import (
	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/relay"
)

// Reconciler merges authoritative snapshots and relay deltas into one view.
// Implementations are not safe for concurrent use; callers serialize access.
type Reconciler interface {
	// Track selects the room the view follows, clearing any previous room state
	Track(roomID uint64)

	// Leave stops following the current room
	Leave()

	// ApplySnapshot replaces the tracked room with an authoritative read.
	// Reports whether the snapshot was applied.
	ApplySnapshot(game *models.Game) bool

	// ApplyDelta patches the view with a relay message.
	// Reports whether the message was accepted rather than dropped.
	ApplyDelta(msg relay.Message) bool

	// ApplyRoomList replaces the lobby with an authoritative list of joinable rooms
	ApplyRoomList(games []*models.Game)

	// View returns a deep copy of the current view
	View() *View
}
