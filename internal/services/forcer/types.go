package forcer

import "time"

// Action is something a viewer may do right now
type Action string

const (
	ActionStart        Action = "start"
	ActionDraw         Action = "draw"
	ActionSkip         Action = "skip"
	ActionForceAdvance Action = "forceAdvance"
	ActionEndGame      Action = "endGame"
	ActionClaim        Action = "claim"
)

// Evaluation is the countdown and permitted actions for one viewer
type Evaluation struct {
	// Remaining is the time left in the current turn, never negative
	Remaining time.Duration

	// Expired is true once the current turn may be forced
	Expired bool

	// CurrentPlayer is the address whose turn it is, "" unless the room is in progress
	CurrentPlayer string

	// Actions the viewer may take, in a stable order
	Actions []Action
}

// Permits reports whether action is among the permitted actions
func (e *Evaluation) Permits(action Action) bool {
	if e == nil {
		return false
	}
	for _, a := range e.Actions {
		if a == action {
			return true
		}
	}
	return false
}
