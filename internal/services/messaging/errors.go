package messaging

// MessagingError is a custom error type for messaging errors
type MessagingError string

// Error implements the error interface
func (e MessagingError) Error() string {
	return string(e)
}

const (
	ErrNilConfig  MessagingError = "config cannot be nil"
	ErrNilError   MessagingError = "error cannot be nil"
	ErrNilMessage MessagingError = "message cannot be nil"
)
