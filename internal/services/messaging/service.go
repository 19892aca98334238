package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/numberjack/internal/dice"
	"github.com/KirkDiggler/numberjack/internal/ledger"
	"github.com/KirkDiggler/numberjack/internal/relay"
	"github.com/KirkDiggler/numberjack/internal/services/turn"
)

// notice is the text for one kind of failure
type notice struct {
	title   string
	neutral string
	funny   []string
}

// notices are checked in order, so precondition errors that arrive wrapped in
// a ledger revert still get their specific text
var notices = []struct {
	err error
	notice
}{
	{turn.ErrNotYourTurn, notice{"Not Your Turn", "It is not your turn yet.", []string{
		"Patience! It's not your turn yet.",
		"Hold your horses! Someone else is drawing now.",
		"Wait your turn! The numbers will come to you soon.",
	}}},
	{turn.ErrPlayerEliminated, notice{"Eliminated", "You are out of this game.", []string{
		"You busted, friend. Sit back and enjoy the show.",
		"Ghosts don't get turns. You're out!",
	}}},
	{turn.ErrRoomNotInProgress, notice{"Game Not Running", "The game is not in progress.", []string{
		"Nothing to play here. The game isn't running.",
		"Easy there! This game hasn't started or is already over.",
	}}},
	{turn.ErrNotParticipant, notice{"Not In Game", "You are not a participant in this room.", []string{
		"You're not on the roster. Join a room first!",
		"Spectators can look but not touch.",
	}}},
	{turn.ErrTurnNotExpired, notice{"Too Soon", "The current turn has not timed out yet.", []string{
		"Give them a chance! The clock hasn't run out.",
		"Not yet! The timer is still ticking.",
	}}},
	{turn.ErrRoomFull, notice{"Room Full", "This room is full.", []string{
		"No room at the inn! This game is full.",
		"This party's at capacity! Try another room.",
	}}},
	{turn.ErrAlreadyJoined, notice{"Already Joined", "You already joined this room.", []string{
		"Double-dipping, are we? You're already in this game!",
		"You're already on the roster. No need to join twice.",
	}}},
	{turn.ErrRoomNotJoinable, notice{"Cannot Join", "This room has already started.", []string{
		"This train has already left the station. Catch the next game!",
		"Too late, hotshot! The numbers are already flying.",
	}}},
	{turn.ErrNotCreator, notice{"Not The Creator", "Only the room creator can start the game.", []string{
		"Nice try! Only the creator gets to push the big button.",
	}}},
	{turn.ErrNotEnoughPlayers, notice{"Need More Players", "At least two players are needed to start.", []string{
		"Playing alone? Wait for at least one more challenger.",
		"It takes two to tango. Find another player!",
	}}},
	{turn.ErrGameNotOver, notice{"Game Not Over", "The game has not reached its limit yet.", []string{
		"Not so fast! There's still game left to play.",
	}}},
	{turn.ErrRoomNotEnded, notice{"Game Not Over", "The game has not ended yet.", []string{
		"Counting your winnings early? The game isn't over.",
	}}},
	{turn.ErrNotWinner, notice{"Not The Winner", "Only the winner can claim the reward.", []string{
		"Nice try! That prize belongs to someone else.",
	}}},
	{turn.ErrAlreadyClaimed, notice{"Already Claimed", "The reward was already claimed.", []string{
		"Greedy! You already took the prize.",
	}}},
	{ledger.ErrReverted, notice{"Transaction Reverted", "The ledger rejected the transaction.", []string{
		"The ledger said no. Refreshing the game.",
		"Rejected! The ledger sees things differently.",
	}}},
	{ledger.ErrSubmission, notice{"Transaction Failed", "The transaction could not be submitted. Try again.", []string{
		"The transaction got lost on the way. Try again!",
		"Hmm, the ledger didn't answer. Give it another shot.",
	}}},
	{relay.ErrNotConnected, notice{"Offline", "Not connected to the relay.", []string{
		"You're shouting into the void. Reconnect to the relay!",
	}}},
}

// service implements the Service interface
type service struct {
	roller dice.Roller
	tone   MessageTone
}

// compile-time check
var _ Service = (*service)(nil)

// New creates a new messaging service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	roller := cfg.DiceRoller
	if roller == nil {
		roller = dice.New(nil)
	}

	tone := cfg.Tone
	if tone == "" {
		tone = ToneFunny
	}

	return &service{
		roller: roller,
		tone:   tone,
	}, nil
}

// GetErrorNotice returns a short notice for a failed action
func (s *service) GetErrorNotice(ctx context.Context, input *GetErrorNoticeInput) (*GetErrorNoticeOutput, error) {
	if input == nil || input.Err == nil {
		return nil, ErrNilError
	}

	tone := s.toneFor(input.PreferredTone)

	for _, n := range notices {
		if !errors.Is(input.Err, n.err) {
			continue
		}
		message := n.neutral
		if tone == ToneFunny {
			message = s.pick(n.funny)
		}
		return &GetErrorNoticeOutput{
			Title:   n.title,
			Message: message,
			Tone:    tone,
		}, nil
	}

	action := input.Action
	if action == "" {
		action = "do that"
	}

	return &GetErrorNoticeOutput{
		Title:   "Something Went Wrong",
		Message: fmt.Sprintf("Could not %s: %s.", action, input.Err),
		Tone:    tone,
	}, nil
}

// GetAnnouncement returns a line announcing a relay message
func (s *service) GetAnnouncement(ctx context.Context, input *GetAnnouncementInput) (*GetAnnouncementOutput, error) {
	if input == nil || input.Message == nil {
		return nil, ErrNilMessage
	}

	tone := s.toneFor(input.PreferredTone)
	funny := tone == ToneFunny

	var message string
	switch m := input.Message.(type) {
	case *relay.CreateRoom:
		if m.Game == nil || m.Game.Room == nil {
			break
		}
		room := m.Game.Room
		message = fmt.Sprintf("Room #%d is open: first to %d wins. Created by %s.", room.ID, room.MaxNumber, ShortAddress(room.Creator))
		if funny {
			message = fmt.Sprintf(s.pick([]string{
				"A new challenger appears! Room #%d is open, first to %d. Blame %s.",
				"Room #%d just opened. Hit %d exactly or bust trying. Host: %s.",
			}), room.ID, room.MaxNumber, ShortAddress(room.Creator))
		}

	case *relay.JoinRoom:
		message = fmt.Sprintf("%s joined room #%d.", ShortAddress(m.Player), m.RoomID)
		if funny {
			message = fmt.Sprintf(s.pick([]string{
				"Fresh meat! %s joined room #%d.",
				"Look who decided to join! %s is in room #%d.",
			}), ShortAddress(m.Player), m.RoomID)
		}

	case *relay.StartGame:
		message = fmt.Sprintf("Room #%d has started.", m.RoomID)
		if funny {
			message = fmt.Sprintf(s.pick([]string{
				"The game is afoot in room #%d! Draw wisely.",
				"Room #%d is live. May the numbers be ever in your favor.",
			}), m.RoomID)
		}

	case *relay.PlayerSkip:
		if !m.Forced {
			break
		}
		message = fmt.Sprintf("%s timed out in room #%d and was skipped.", ShortAddress(m.PlayerAddress), m.RoomID)
		if funny {
			message = fmt.Sprintf(s.pick([]string{
				"%s fell asleep at the table in room #%d. Skipped!",
				"Wakey wakey, %s! The table in room #%d moved on without you.",
			}), ShortAddress(m.PlayerAddress), m.RoomID)
		}

	case *relay.PlayerLost:
		message = fmt.Sprintf("%s busted in room #%d.", ShortAddress(m.PlayerAddress), m.RoomID)
		if funny {
			message = fmt.Sprintf(s.pick([]string{
				"%s flew too close to the sun in room #%d. Busted!",
				"Over the line! %s is out of room #%d.",
			}), ShortAddress(m.PlayerAddress), m.RoomID)
		}

	case *relay.PlayerWin:
		message = fmt.Sprintf("%s won room #%d.", ShortAddress(m.PlayerAddress), m.RoomID)
		if funny {
			message = fmt.Sprintf(s.pick([]string{
				"Last one standing! %s takes room #%d.",
				"Winner winner! %s owns room #%d.",
			}), ShortAddress(m.PlayerAddress), m.RoomID)
		}

	case *relay.PlayerClaim:
		message = fmt.Sprintf("%s claimed the reward for room #%d.", ShortAddress(m.PlayerAddress), m.RoomID)

	case *relay.CloseRoom:
		message = fmt.Sprintf("Room #%d is closed.", m.RoomID)

	case *relay.LeaveRoom, *relay.AdvanceTurn, *relay.PlayerDraw:
		// too chatty to announce
	}

	return &GetAnnouncementOutput{
		Message: message,
		Tone:    tone,
	}, nil
}

func (s *service) toneFor(preferred MessageTone) MessageTone {
	if preferred != "" {
		return preferred
	}
	return s.tone
}

// pick selects a random variant
func (s *service) pick(variants []string) string {
	if len(variants) == 0 {
		return ""
	}
	i := s.roller.Roll(len(variants)) - 1
	if i < 0 || i >= len(variants) {
		i = 0
	}
	return variants[i]
}

// ShortAddress abbreviates a long account address for display
func ShortAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
