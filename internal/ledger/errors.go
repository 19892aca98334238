package ledger

// LedgerError is a custom error type for ledger errors
type LedgerError string

// Error implements the error interface
func (e LedgerError) Error() string {
	return string(e)
}

const (
	// ErrReverted wraps a mutation the ledger rejected on its preconditions
	ErrReverted LedgerError = "transaction reverted"

	// ErrSubmission wraps a mutation that never got a verdict (timeout, transport)
	ErrSubmission LedgerError = "transaction submission failed"

	ErrNilConfig     LedgerError = "config cannot be nil"
	ErrNilRepository LedgerError = "room repository cannot be nil"
	ErrNilDiceRoller LedgerError = "dice roller cannot be nil"
	ErrNilClock      LedgerError = "clock cannot be nil"
	ErrEmptyAddress  LedgerError = "account address cannot be empty"
	ErrRoomNotFound  LedgerError = "room not found"
	ErrNotInRoom     LedgerError = "player not in room"
)
