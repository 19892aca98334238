package messaging

import (
	"github.com/KirkDiggler/numberjack/internal/dice"
	"github.com/KirkDiggler/numberjack/internal/relay"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"
)

// Config holds configuration for the messaging service
type Config struct {
	// DiceRoller picks between message variants, defaults to a time-seeded roller
	DiceRoller dice.Roller

	// Tone used when an input does not ask for one, defaults to ToneFunny
	Tone MessageTone
}

// GetErrorNoticeInput contains parameters for an error notice
type GetErrorNoticeInput struct {
	// Action is what the viewer tried to do, e.g. "draw"
	Action string

	// Err is the failure
	Err error

	// PreferredTone is the preferred tone for the notice (optional)
	PreferredTone MessageTone
}

// GetErrorNoticeOutput contains a notice
type GetErrorNoticeOutput struct {
	Title   string
	Message string
	Tone    MessageTone
}

// GetAnnouncementInput contains the relay message to announce
type GetAnnouncementInput struct {
	Message relay.Message

	// PreferredTone is the preferred tone for the announcement (optional)
	PreferredTone MessageTone
}

// GetAnnouncementOutput contains the announcement, empty when nothing should be said
type GetAnnouncementOutput struct {
	Message string
	Tone    MessageTone
}
