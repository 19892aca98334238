package dice

import (
	"math/rand"
	"sync"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/KirkDiggler/numberjack/internal/dice Roller

// Roller provides dice rolling functionality
type Roller interface {
	// Roll returns a value in [1, sides]
	Roll(sides int) int
}

// Config for dice roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// randomRoller rolls with math/rand
type randomRoller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// New creates a new dice roller
func New(cfg *Config) Roller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &randomRoller{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Roll generates a random dice roll with the specified number of sides
func (r *randomRoller) Roll(sides int) int {
	if sides < 1 {
		sides = 6 // Default to 6-sided die
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.random.Intn(sides) + 1
}

// Sequence replays fixed values in order, ignoring sides.
// Clients use it to replay draws the ledger already produced.
type Sequence struct {
	values []int
	next   int
}

// NewSequence returns a roller that yields values in order
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// Roll returns the next scripted value, or 1 once the script is exhausted
func (s *Sequence) Roll(sides int) int {
	if s.next >= len(s.values) {
		return 1
	}
	v := s.values[s.next]
	s.next++
	return v
}
