package session

import (
	"github.com/KirkDiggler/numberjack/internal/relay"
	"github.com/KirkDiggler/numberjack/internal/services/turn"
)

// messagesFor translates a transition into the relay deltas that reproduce it.
// Applying them in order to the game the transition started from yields out.Game.
func messagesFor(out *turn.TransitionOutput) []relay.Message {
	if out == nil {
		return nil
	}

	msgs := make([]relay.Message, 0, len(out.Events))
	for _, ev := range out.Events {
		switch ev.Kind {
		case turn.EventCreated:
			msgs = append(msgs, &relay.CreateRoom{Game: out.Game.Clone()})
		case turn.EventJoined:
			msgs = append(msgs, &relay.JoinRoom{RoomID: ev.RoomID, Player: ev.Player})
		case turn.EventStarted:
			msgs = append(msgs, &relay.StartGame{RoomID: ev.RoomID, StartTime: ev.At})
		case turn.EventDrew:
			msgs = append(msgs, &relay.PlayerDraw{
				RoomID:        ev.RoomID,
				PlayerAddress: ev.Player,
				Draws:         ev.Draws,
				Offset:        ev.Offset,
			})
		case turn.EventSkipped:
			msgs = append(msgs, &relay.PlayerSkip{RoomID: ev.RoomID, PlayerAddress: ev.Player})
		case turn.EventForcedSkip:
			msgs = append(msgs, &relay.PlayerSkip{RoomID: ev.RoomID, PlayerAddress: ev.Player, Forced: true})
		case turn.EventBusted:
			msgs = append(msgs, &relay.PlayerLost{RoomID: ev.RoomID, PlayerAddress: ev.Player})
		case turn.EventTurnAdvanced:
			at := ev.At
			msgs = append(msgs, &relay.AdvanceTurn{
				RoomID:        ev.RoomID,
				PlayerAddress: ev.Player,
				Timestamp:     &at,
				Round:         ev.Round,
			})
		case turn.EventWon:
			msgs = append(msgs, &relay.PlayerWin{RoomID: ev.RoomID, PlayerAddress: ev.Player})
		case turn.EventEnded:
			msgs = append(msgs, &relay.CloseRoom{RoomID: ev.RoomID})
		case turn.EventClaimed:
			msgs = append(msgs, &relay.PlayerClaim{RoomID: ev.RoomID, PlayerAddress: ev.Player})
		}
	}
	return msgs
}
