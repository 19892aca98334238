package session

// SessionError is a custom error type for session errors
type SessionError string

// Error implements the error interface
func (e SessionError) Error() string {
	return string(e)
}

const (
	ErrNilConfig  SessionError = "config cannot be nil"
	ErrNilChannel SessionError = "relay channel cannot be nil"
	ErrNilInput   SessionError = "input cannot be nil"

	// ErrNoAccount means no ledger account is connected
	ErrNoAccount SessionError = "no account connected"

	// ErrNoRoom means the action needs a tracked room
	ErrNoRoom SessionError = "no room selected"

	// ErrActionNotPermitted means the countdown or the viewer's role rules the action out
	ErrActionNotPermitted SessionError = "action not permitted right now"
)
