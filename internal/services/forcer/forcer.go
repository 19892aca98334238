package forcer

import (
	"time"

	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/services/turn"
)

// Evaluate derives the turn countdown and the actions viewer may take at now.
// It only reads timestamps, so there is nothing to start or cancel.
func Evaluate(game *models.Game, viewer string, now time.Time) *Evaluation {
	eval := &Evaluation{Actions: []Action{}}
	if game == nil || game.Room == nil {
		return eval
	}

	room := game.Room
	player := game.Player(viewer)
	participant := player != nil && room.HasPlayer(viewer)

	switch room.Status {
	case models.RoomStatusNotStarted:
		if viewer == room.Creator && len(room.Players) >= turn.DefaultMinPlayers {
			eval.Actions = append(eval.Actions, ActionStart)
		}

	case models.RoomStatusInProgress:
		eval.CurrentPlayer = room.CurrentPlayer()
		eval.Remaining = room.TurnDeadline().Sub(now)
		if eval.Remaining <= 0 {
			eval.Remaining = 0
			eval.Expired = true
		}

		isCurrent := participant && viewer == eval.CurrentPlayer && player.Active
		switch {
		case isCurrent && !eval.Expired:
			eval.Actions = append(eval.Actions, ActionDraw)
			if !player.HasSkippedTurn {
				eval.Actions = append(eval.Actions, ActionSkip)
			}
		case participant && !isCurrent && eval.Expired:
			eval.Actions = append(eval.Actions, ActionForceAdvance)
		}

		if participant && room.IsOver(now) {
			eval.Actions = append(eval.Actions, ActionEndGame)
		}

	case models.RoomStatusEnded:
		if participant && room.Winner == viewer && !player.Claimed {
			eval.Actions = append(eval.Actions, ActionClaim)
		}
	}

	return eval
}
