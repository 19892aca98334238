package models

// Game is a room together with its players in join order.
// Ledger snapshots, the relay mirror and each viewer's reconciled view all carry a Game.
type Game struct {
	Room    *Room     `json:"room"`
	Players []*Player `json:"players"`
}

// Player returns the player with the given address, or nil
func (g *Game) Player(address string) *Player {
	if g == nil {
		return nil
	}
	for _, p := range g.Players {
		if p.Address == address {
			return p
		}
	}
	return nil
}

// ActivePlayers returns the addresses of active players in join order
func (g *Game) ActivePlayers() []string {
	if g == nil || g.Room == nil {
		return nil
	}
	active := make([]string, 0, len(g.Room.Players))
	for _, addr := range g.Room.Players {
		if p := g.Player(addr); p != nil && p.Active {
			active = append(active, addr)
		}
	}
	return active
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := &Game{
		Room:    g.Room.Clone(),
		Players: make([]*Player, 0, len(g.Players)),
	}
	for _, p := range g.Players {
		c.Players = append(c.Players, p.Clone())
	}
	return c
}
