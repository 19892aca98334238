package reconciler

import (
	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/relay"
)

// service implements the Reconciler interface
type service struct {
	logger *zap.Logger

	roomID  uint64
	game    *models.Game
	version uint64
	lobby   []*models.Game

	// joined holds players added by relay joins since the last applied snapshot
	joined map[string]bool
}

// compile-time check
var _ Reconciler = (*service)(nil)

// New creates a new reconciler with an empty view
func New(cfg *Config) *service {
	logger := zap.NewNop()
	if cfg != nil && cfg.Logger != nil {
		logger = cfg.Logger
	}

	return &service{logger: logger}
}

// Track selects the room the view follows
func (s *service) Track(roomID uint64) {
	if s.roomID == roomID {
		return
	}
	s.roomID = roomID
	s.game = nil
	s.version = 0
	s.joined = nil
}

// Leave stops following the current room
func (s *service) Leave() {
	s.Track(0)
}

// ApplySnapshot replaces room fields and matching players with the snapshot's.
// A player known only from a relay join is kept through the first snapshot that
// misses it and dropped by the next. Snapshots older than the last applied
// version are ignored.
func (s *service) ApplySnapshot(game *models.Game) bool {
	if game == nil || game.Room == nil {
		return false
	}

	s.refreshLobbyEntry(game)

	if s.roomID == 0 || game.Room.ID != s.roomID {
		return false
	}

	if game.Room.Version < s.version {
		s.logger.Debug("ignoring stale snapshot",
			zap.Uint64("room_id", game.Room.ID),
			zap.Uint64("version", game.Room.Version),
			zap.Uint64("applied_version", s.version),
		)
		return false
	}

	next := game.Clone()
	if s.game != nil && next.Room.Status == models.RoomStatusNotStarted {
		for _, local := range s.game.Players {
			if next.Player(local.Address) != nil || !s.joined[local.Address] {
				continue
			}
			next.Players = append(next.Players, local.Clone())
			if !next.Room.HasPlayer(local.Address) {
				next.Room.Players = append(next.Room.Players, local.Address)
			}
		}
	}

	s.game = next
	s.version = game.Room.Version
	s.joined = nil
	return true
}

// ApplyDelta patches the view with a relay message
func (s *service) ApplyDelta(msg relay.Message) bool {
	if msg == nil {
		return false
	}

	s.patchLobby(msg)

	if s.roomID == 0 || msg.Room() != s.roomID {
		return s.drop(msg, "room not tracked")
	}

	if create, ok := msg.(*relay.CreateRoom); ok {
		if s.game == nil {
			s.game = create.Game.Clone()
		}
		return true
	}

	if s.game == nil {
		return s.drop(msg, "room not loaded")
	}

	room := s.game.Room

	switch m := msg.(type) {
	case *relay.JoinRoom:
		if m.Player == "" {
			return s.drop(msg, "empty player")
		}
		if room.Status != models.RoomStatusNotStarted {
			return s.drop(msg, "room not joinable")
		}
		if s.game.Player(m.Player) == nil {
			s.game.Players = append(s.game.Players, models.NewPlayer(m.Player))
			if s.joined == nil {
				s.joined = make(map[string]bool)
			}
			s.joined[m.Player] = true
		}
		if !room.HasPlayer(m.Player) {
			room.Players = append(room.Players, m.Player)
		}
		return true

	case *relay.StartGame:
		if room.Status != models.RoomStatusNotStarted {
			return true
		}
		room.Status = models.RoomStatusInProgress
		room.StartTime = m.StartTime
		room.LastTurnAt = m.StartTime
		room.CurrentPlayerIndex = 0
		if room.CurrentRound < 1 {
			room.CurrentRound = 1
		}
		return true

	case *relay.CloseRoom:
		if room.Status.CanMoveTo(models.RoomStatusEnded) {
			room.Status = models.RoomStatusEnded
		}
		return true

	case *relay.LeaveRoom:
		// group membership only, the roster is unchanged
		return s.requirePlayer(msg, m.PlayerAddress) != nil
	}

	player := s.requirePlayer(msg, relay.Player(msg))
	if player == nil {
		return false
	}

	switch m := msg.(type) {
	case *relay.AdvanceTurn:
		if room.Status == models.RoomStatusEnded {
			return true
		}
		room.CurrentPlayerIndex = room.IndexOf(m.PlayerAddress)
		if m.Timestamp != nil {
			room.LastTurnAt = *m.Timestamp
		}
		if m.Round > room.CurrentRound {
			room.CurrentRound = m.Round
			for _, p := range s.game.Players {
				p.HasSkippedTurn = false
			}
		}

	case *relay.PlayerDraw:
		if m.Offset < len(player.Draws) {
			// already reflected, usually by a snapshot that overtook the relay
			return true
		}
		player.Draws = append(player.Draws, m.Draws[0], m.Draws[1])
		player.Total = player.SumDraws()

	case *relay.PlayerSkip:
		player.HasSkippedTurn = true

	case *relay.PlayerLost:
		player.Active = false

	case *relay.PlayerWin:
		room.Winner = m.PlayerAddress
		room.Status = models.RoomStatusEnded

	case *relay.PlayerClaim:
		player.Claimed = true
	}

	return true
}

// ApplyRoomList replaces the lobby
func (s *service) ApplyRoomList(games []*models.Game) {
	lobby := make([]*models.Game, 0, len(games))
	for _, g := range games {
		if g == nil || g.Room == nil {
			continue
		}
		lobby = append(lobby, g.Clone())
	}
	s.lobby = lobby
}

// View returns a deep copy of the current view
func (s *service) View() *View {
	view := &View{
		RoomID:  s.roomID,
		Game:    s.game.Clone(),
		Rooms:   make([]*models.Game, 0, len(s.lobby)),
		Version: s.version,
	}
	for _, g := range s.lobby {
		view.Rooms = append(view.Rooms, g.Clone())
	}
	return view
}

func (s *service) requirePlayer(msg relay.Message, address string) *models.Player {
	player := s.game.Player(address)
	if player == nil || !s.game.Room.HasPlayer(address) {
		s.drop(msg, "player not in roster")
		return nil
	}
	return player
}

func (s *service) drop(msg relay.Message, reason string) bool {
	s.logger.Debug("dropping relay delta",
		zap.String("type", string(msg.Type())),
		zap.Uint64("room_id", msg.Room()),
		zap.Uint64("tracked_room_id", s.roomID),
		zap.String("reason", reason),
	)
	return false
}

// patchLobby keeps the joinable room list current from lobby-level messages
func (s *service) patchLobby(msg relay.Message) {
	switch m := msg.(type) {
	case *relay.CreateRoom:
		if m.Game != nil && m.Game.Room != nil && s.lobbyIndex(m.Room()) < 0 && m.Game.Room.Status == models.RoomStatusNotStarted {
			s.lobby = append(s.lobby, m.Game.Clone())
		}
	case *relay.JoinRoom:
		if i := s.lobbyIndex(m.RoomID); i >= 0 && !s.lobby[i].Room.HasPlayer(m.Player) {
			s.lobby[i].Room.Players = append(s.lobby[i].Room.Players, m.Player)
			s.lobby[i].Players = append(s.lobby[i].Players, models.NewPlayer(m.Player))
		}
	case *relay.StartGame, *relay.CloseRoom:
		if i := s.lobbyIndex(msg.Room()); i >= 0 {
			s.lobby = append(s.lobby[:i], s.lobby[i+1:]...)
		}
	}
}

// refreshLobbyEntry replaces a lobby room with a newer authoritative read
func (s *service) refreshLobbyEntry(game *models.Game) {
	i := s.lobbyIndex(game.Room.ID)
	if i < 0 {
		return
	}
	if game.Room.Status != models.RoomStatusNotStarted {
		s.lobby = append(s.lobby[:i], s.lobby[i+1:]...)
		return
	}
	if game.Room.Version >= s.lobby[i].Room.Version {
		s.lobby[i] = game.Clone()
	}
}

func (s *service) lobbyIndex(roomID uint64) int {
	for i, g := range s.lobby {
		if g.Room.ID == roomID {
			return i
		}
	}
	return -1
}
