package gateway

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/relay"
	"github.com/KirkDiggler/numberjack/internal/repositories/mirror"
)

// command runs on the loop goroutine
type command func(ctx context.Context)

// Gateway fans relay frames out to room groups. All state is owned by the Run loop.
type Gateway struct {
	mirror    mirror.Repository
	logger    *zap.Logger
	observers []Observer

	inbox   chan command
	stopped chan struct{}

	// loop-owned
	conns  map[string]Conn
	groups map[uint64]map[string]Conn
}

// New creates a gateway. Nothing is routed until Run is called.
func New(cfg *Config) (*Gateway, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Mirror == nil {
		return nil, ErrNilMirror
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	inboxSize := cfg.InboxSize
	if inboxSize <= 0 {
		inboxSize = DefaultInboxSize
	}

	return &Gateway{
		mirror:    cfg.Mirror,
		logger:    logger,
		observers: cfg.Observers,
		inbox:     make(chan command, inboxSize),
		stopped:   make(chan struct{}),
		conns:     make(map[string]Conn),
		groups:    make(map[uint64]map[string]Conn),
	}, nil
}

// Run processes events one at a time until ctx is cancelled
func (g *Gateway) Run(ctx context.Context) error {
	defer close(g.stopped)

	g.logger.Info("gateway running")
	for {
		select {
		case <-ctx.Done():
			g.logger.Info("gateway stopped")
			return ctx.Err()
		case cmd := <-g.inbox:
			cmd(ctx)
		}
	}
}

// Register adds a connection
func (g *Gateway) Register(conn Conn) error {
	if conn == nil {
		return ErrNilConn
	}
	return g.enqueue(func(ctx context.Context) {
		g.conns[conn.ID()] = conn
		g.logger.Debug("connection registered", zap.String("conn_id", conn.ID()))
	})
}

// Unregister removes a connection from the gateway and every room group
func (g *Gateway) Unregister(conn Conn) error {
	if conn == nil {
		return ErrNilConn
	}
	return g.enqueue(func(ctx context.Context) {
		delete(g.conns, conn.ID())
		for roomID, members := range g.groups {
			delete(members, conn.ID())
			if len(members) == 0 {
				delete(g.groups, roomID)
			}
		}
		g.logger.Debug("connection unregistered", zap.String("conn_id", conn.ID()))
	})
}

// Dispatch routes a frame received from conn
func (g *Gateway) Dispatch(conn Conn, frame []byte) error {
	if conn == nil {
		return ErrNilConn
	}
	return g.enqueue(func(ctx context.Context) {
		g.handle(ctx, conn, frame)
	})
}

// Rooms lists the mirrored rooms
func (g *Gateway) Rooms(ctx context.Context) ([]*models.Game, error) {
	type result struct {
		games []*models.Game
		err   error
	}
	reply := make(chan result, 1)

	err := g.enqueue(func(loopCtx context.Context) {
		out, err := g.mirror.ListRooms(loopCtx, &mirror.ListRoomsInput{})
		if err != nil {
			reply <- result{err: err}
			return
		}
		reply <- result{games: out.Games}
	})
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.stopped:
		return nil, ErrNotRunning
	case r := <-reply:
		return r.games, r.err
	}
}

func (g *Gateway) enqueue(cmd command) error {
	select {
	case <-g.stopped:
		return ErrNotRunning
	default:
	}

	select {
	case <-g.stopped:
		return ErrNotRunning
	case g.inbox <- cmd:
		return nil
	}
}

// handle routes one frame. Gameplay frames are rebroadcast verbatim.
func (g *Gateway) handle(ctx context.Context, conn Conn, frame []byte) {
	msg, err := relay.Decode(frame)
	if err != nil {
		g.logger.Debug("dropping frame", zap.String("conn_id", conn.ID()), zap.Error(err))
		return
	}

	roomID := msg.Room()
	logger := g.logger.With(
		zap.String("conn_id", conn.ID()),
		zap.String("type", string(msg.Type())),
		zap.Uint64("room_id", roomID),
	)

	switch m := msg.(type) {
	case *relay.CreateRoom:
		if _, err := g.mirror.GetRoom(ctx, &mirror.GetRoomInput{RoomID: roomID}); err == nil {
			logger.Debug("room already mirrored")
			return
		} else if !errors.Is(err, mirror.ErrRoomNotFound) {
			logger.Error("failed to read mirror", zap.Error(err))
			return
		}

		if err := g.mirror.SaveRoom(ctx, &mirror.SaveRoomInput{Game: m.Game}); err != nil {
			logger.Error("failed to mirror room", zap.Error(err))
			return
		}
		g.join(roomID, conn)
		g.broadcastAll(frame, conn)

	case *relay.JoinRoom:
		game, err := g.mirror.GetRoom(ctx, &mirror.GetRoomInput{RoomID: roomID})
		if err != nil {
			logger.Debug("join for unknown room", zap.Error(err))
			return
		}

		g.join(roomID, conn)
		if m.Player == "" || game.Player(m.Player) != nil {
			// a rejoin only restores group membership
			logger.Debug("player already mirrored")
			return
		}

		game.Players = append(game.Players, models.NewPlayer(m.Player))
		if !game.Room.HasPlayer(m.Player) {
			game.Room.Players = append(game.Room.Players, m.Player)
		}
		if err := g.mirror.SaveRoom(ctx, &mirror.SaveRoomInput{Game: game}); err != nil {
			logger.Error("failed to mirror join", zap.Error(err))
		}
		g.broadcastGroup(roomID, frame, conn)

	case *relay.LeaveRoom:
		g.broadcastGroup(roomID, frame, conn)
		g.leave(roomID, conn)

	case *relay.StartGame:
		g.markStarted(ctx, logger, m)
		g.broadcastGroup(roomID, frame, conn)

	case *relay.AdvanceTurn, *relay.PlayerDraw, *relay.PlayerSkip,
		*relay.PlayerLost, *relay.PlayerWin, *relay.PlayerClaim:
		g.broadcastGroup(roomID, frame, conn)

	case *relay.CloseRoom:
		g.broadcastGroup(roomID, frame, conn)
		delete(g.groups, roomID)
		if err := g.mirror.DeleteRoom(ctx, &mirror.DeleteRoomInput{RoomID: roomID}); err != nil {
			logger.Error("failed to forget room", zap.Error(err))
		}
	}

	for _, o := range g.observers {
		o.Observe(ctx, msg)
	}
}

// markStarted keeps the mirror's lobby status current so /rooms shows joinable rooms
func (g *Gateway) markStarted(ctx context.Context, logger *zap.Logger, m *relay.StartGame) {
	game, err := g.mirror.GetRoom(ctx, &mirror.GetRoomInput{RoomID: m.RoomID})
	if err != nil {
		return
	}
	if game.Room.Status != models.RoomStatusNotStarted {
		return
	}
	game.Room.Status = models.RoomStatusInProgress
	game.Room.StartTime = m.StartTime
	if err := g.mirror.SaveRoom(ctx, &mirror.SaveRoomInput{Game: game}); err != nil {
		logger.Error("failed to mirror start", zap.Error(err))
	}
}

func (g *Gateway) join(roomID uint64, conn Conn) {
	members, ok := g.groups[roomID]
	if !ok {
		members = make(map[string]Conn)
		g.groups[roomID] = members
	}
	members[conn.ID()] = conn
}

func (g *Gateway) leave(roomID uint64, conn Conn) {
	members, ok := g.groups[roomID]
	if !ok {
		return
	}
	delete(members, conn.ID())
	if len(members) == 0 {
		delete(g.groups, roomID)
	}
}

func (g *Gateway) broadcastGroup(roomID uint64, frame []byte, sender Conn) {
	for id, member := range g.groups[roomID] {
		if id == sender.ID() {
			continue
		}
		g.send(member, frame)
	}
}

func (g *Gateway) broadcastAll(frame []byte, sender Conn) {
	for id, conn := range g.conns {
		if id == sender.ID() {
			continue
		}
		g.send(conn, frame)
	}
}

func (g *Gateway) send(conn Conn, frame []byte) {
	if !conn.Send(frame) {
		g.logger.Warn("connection send buffer full, dropping frame", zap.String("conn_id", conn.ID()))
	}
}
