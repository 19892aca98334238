package models

// Player is one participant's state within a room
type Player struct {
	// Address is the participant's account address
	Address string `json:"address"`

	// Draws are every number drawn, appended two at a time
	Draws []int `json:"draws"`

	// Total is the sum of Draws
	Total int `json:"total"`

	// Active is false once the player is eliminated, and never flips back
	Active bool `json:"isActive"`

	// HasSkippedTurn is set when the player skipped during the current round
	HasSkippedTurn bool `json:"hasSkippedTurn"`

	// Claimed is set once the winner has claimed the reward
	Claimed bool `json:"claimed"`
}

// NewPlayer returns a freshly joined player
func NewPlayer(address string) *Player {
	return &Player{
		Address: address,
		Draws:   []int{},
		Active:  true,
	}
}

// SumDraws returns the sum of all draws
func (p *Player) SumDraws() int {
	sum := 0
	for _, d := range p.Draws {
		sum += d
	}
	return sum
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	c := *p
	c.Draws = append([]int{}, p.Draws...)
	return &c
}
