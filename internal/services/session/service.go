package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/common/clock"
	"github.com/KirkDiggler/numberjack/internal/dice"
	"github.com/KirkDiggler/numberjack/internal/ledger"
	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/relay"
	"github.com/KirkDiggler/numberjack/internal/services/forcer"
	"github.com/KirkDiggler/numberjack/internal/services/messaging"
	"github.com/KirkDiggler/numberjack/internal/services/reconciler"
	"github.com/KirkDiggler/numberjack/internal/services/turn"
)

// service implements the Session interface
type service struct {
	ledger     ledger.Client
	channel    relay.Channel
	messaging  messaging.Service
	clock      clock.Clock
	logger     *zap.Logger
	maxPlayers int

	pollInterval    time.Duration
	refreshDebounce time.Duration
	noticeWindow    time.Duration

	// mu serializes reconciliation and guards everything below it
	mu         sync.Mutex
	reconciler reconciler.Reconciler
	machine    turn.Machine
	roomID     uint64
	notice     *Notice
	runCtx     context.Context
	cancel     context.CancelFunc

	// kick requests an immediate refresh, bump a debounced one
	kick chan struct{}
	bump chan struct{}

	wg sync.WaitGroup
}

// compile-time check
var _ Session = (*service)(nil)

// New creates a session. Nothing runs until Connect.
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Channel == nil {
		return nil, ErrNilChannel
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rec := cfg.Reconciler
	if rec == nil {
		rec = reconciler.New(&reconciler.Config{Logger: logger})
	}

	msgSvc := cfg.Messaging
	if msgSvc == nil {
		svc, err := messaging.New(&messaging.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create messaging service: %w", err)
		}
		msgSvc = svc
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	maxPlayers := cfg.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = turn.DefaultMaxPlayers
	}

	// local transitions other than draws never roll
	machine, err := turn.New(&turn.Config{
		DiceRoller: dice.NewSequence(),
		MaxPlayers: maxPlayers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create turn machine: %w", err)
	}

	return &service{
		ledger:          cfg.Ledger,
		channel:         cfg.Channel,
		messaging:       msgSvc,
		clock:           clk,
		logger:          logger,
		maxPlayers:      maxPlayers,
		pollInterval:    orDefault(cfg.PollInterval, DefaultPollInterval),
		refreshDebounce: orDefault(cfg.RefreshDebounce, DefaultRefreshDebounce),
		noticeWindow:    orDefault(cfg.NoticeWindow, DefaultNoticeWindow),
		reconciler:      rec,
		machine:         machine,
		roomID:          rec.View().RoomID,
		kick:            make(chan struct{}, 1),
		bump:            make(chan struct{}, 1),
	}, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Connect opens the relay and starts the background tasks
func (s *service) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	if err := s.channel.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.runCtx = runCtx
	s.cancel = cancel

	s.wg.Add(2)
	go s.consume(runCtx, s.channel.Messages())
	go s.refreshLoop(runCtx)

	s.logger.Info("session connected", zap.String("player", s.Address()))
	return nil
}

// Disconnect stops the background tasks and in-flight submissions, then closes the relay
func (s *service) Disconnect() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.runCtx = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	s.wg.Wait()

	if err := s.channel.Disconnect(); err != nil {
		s.logger.Warn("failed to close relay", zap.Error(err))
	}
	s.logger.Info("session disconnected", zap.String("player", s.Address()))
}

// Address is the viewer's account
func (s *service) Address() string {
	if s.ledger == nil {
		return ""
	}
	return s.ledger.Address()
}

// View returns a copy of the reconciled view
func (s *service) View() *reconciler.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.View()
}

// Evaluate returns the countdown and permitted actions for the viewer
func (s *service) Evaluate() *forcer.Evaluation {
	view := s.View()
	return forcer.Evaluate(view.Game, s.Address(), s.clock.Now())
}

// Notice returns the current notice until its display window has passed
func (s *service) Notice() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notice == nil {
		return nil
	}
	if s.clock.Now().Sub(s.notice.At) >= s.noticeWindow {
		s.notice = nil
		return nil
	}
	n := *s.notice
	return &n
}

// RefreshNow reads the tracked room and the lobby from the ledger and reconciles them
func (s *service) RefreshNow(ctx context.Context) error {
	if s.ledger == nil {
		return ErrNoAccount
	}

	s.mu.Lock()
	roomID := s.roomID
	s.mu.Unlock()

	var game *models.Game
	if roomID != 0 {
		out, err := s.ledger.GetRoomByID(ctx, &ledger.RoomInput{RoomID: roomID})
		if err != nil {
			return fmt.Errorf("failed to read room %d: %w", roomID, err)
		}
		game = out.Game
	}

	rooms, err := s.ledger.GetAvailableRooms(ctx, &ledger.GetAvailableRoomsInput{})
	if err != nil {
		return fmt.Errorf("failed to read available rooms: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reconciler.ApplyRoomList(rooms.Games)
	if game != nil && s.roomID == roomID {
		s.reconciler.ApplySnapshot(game)
	}
	return nil
}

// CreateRoom checks the settings locally, then creates the room on the ledger.
// The ledger assigns the ID, so the room is tracked and announced only once confirmed.
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) error {
	const action = "create a room"

	if input == nil {
		return ErrNilInput
	}

	s.mu.Lock()
	runCtx, err := s.ready(action)
	if err == nil {
		_, err = s.machine.Create(&turn.CreateInput{
			Creator:     s.Address(),
			MaxNumber:   input.MaxNumber,
			EntryFee:    input.EntryFee,
			Mode:        input.Mode,
			ModeValue:   input.ModeValue,
			TurnTimeout: input.TurnTimeout,
			Now:         s.clock.Now(),
		})
		if err != nil {
			s.setNotice(action, err)
		}
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.submit(runCtx, action, func(ctx context.Context) error {
		out, err := s.ledger.CreateRoom(ctx, &ledger.CreateRoomInput{
			MaxNumber:   input.MaxNumber,
			EntryFee:    input.EntryFee,
			Mode:        input.Mode,
			ModeValue:   input.ModeValue,
			TurnTimeout: input.TurnTimeout,
		})
		if err != nil {
			return err
		}

		read, err := s.ledger.GetRoomByID(ctx, &ledger.RoomInput{RoomID: out.RoomID})
		if err != nil {
			return fmt.Errorf("failed to read created room %d: %w", out.RoomID, err)
		}

		s.mu.Lock()
		s.track(out.RoomID)
		s.reconciler.ApplySnapshot(read.Game)
		s.mu.Unlock()

		s.publish(ctx, []relay.Message{&relay.CreateRoom{Game: read.Game}})
		return nil
	})
	return nil
}

// JoinRoom tracks the room and joins it. The lobby entry, when there is one,
// seeds the view so the join can be applied optimistically.
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) error {
	const action = "join the room"

	if input == nil || input.RoomID == 0 {
		return ErrNoRoom
	}

	s.mu.Lock()
	runCtx, err := s.ready(action)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if s.roomID != input.RoomID {
		s.track(input.RoomID)
		for _, g := range s.reconciler.View().Rooms {
			if g.Room.ID == input.RoomID {
				s.reconciler.ApplySnapshot(g)
				break
			}
		}
	}

	msgs := []relay.Message{&relay.JoinRoom{RoomID: input.RoomID, Player: s.Address()}}
	if game := s.reconciler.View().Game; game != nil {
		out, err := s.machine.Join(&turn.JoinInput{Game: game, Player: s.Address(), Now: s.clock.Now()})
		if err != nil {
			s.setNotice(action, err)
			s.mu.Unlock()
			return err
		}
		msgs = s.applyLocked(messagesFor(out))
	}
	s.mu.Unlock()

	s.publish(ctx, msgs)
	s.submit(runCtx, action, func(ctx context.Context) error {
		_, err := s.ledger.JoinRoom(ctx, &ledger.RoomInput{RoomID: input.RoomID})
		return err
	})
	return nil
}

// LeaveRoom leaves the relay group and stops tracking the room
func (s *service) LeaveRoom(ctx context.Context) error {
	s.mu.Lock()
	roomID := s.roomID
	s.track(0)
	s.mu.Unlock()

	if roomID == 0 {
		return ErrNoRoom
	}

	s.publish(ctx, []relay.Message{&relay.LeaveRoom{RoomID: roomID, PlayerAddress: s.Address()}})
	return nil
}

// StartGame starts the tracked room
func (s *service) StartGame(ctx context.Context) error {
	return s.act(ctx, forcer.ActionStart, "start the game",
		func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
			return s.machine.Start(&turn.StartInput{Game: game, Caller: s.Address(), Now: now})
		},
		func(ctx context.Context, roomID uint64) error {
			_, err := s.ledger.StartGame(ctx, &ledger.RoomInput{RoomID: roomID})
			return err
		},
	)
}

// Draw submits the viewer's turn. The numbers come from the ledger, so the draw
// is applied and broadcast once it is confirmed.
func (s *service) Draw(ctx context.Context) error {
	return s.act(ctx, forcer.ActionDraw, "draw", nil,
		func(ctx context.Context, roomID uint64) error {
			out, err := s.ledger.PlayTurn(ctx, &ledger.RoomInput{RoomID: roomID})
			if err != nil {
				return err
			}
			s.publish(ctx, s.replayDraw(roomID, out))
			return nil
		},
	)
}

// Skip forfeits the viewer's turn
func (s *service) Skip(ctx context.Context) error {
	return s.act(ctx, forcer.ActionSkip, "skip",
		func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
			return s.machine.Skip(&turn.SkipInput{Game: game, Caller: s.Address(), Now: now})
		},
		func(ctx context.Context, roomID uint64) error {
			_, err := s.ledger.SkipTurn(ctx, &ledger.RoomInput{RoomID: roomID})
			return err
		},
	)
}

// ForceAdvance skips a current player whose turn has timed out
func (s *service) ForceAdvance(ctx context.Context) error {
	return s.act(ctx, forcer.ActionForceAdvance, "force the turn",
		func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
			return s.machine.ForceAdvance(&turn.ForceAdvanceInput{Game: game, Caller: s.Address(), Now: now})
		},
		func(ctx context.Context, roomID uint64) error {
			_, err := s.ledger.ForceAdvance(ctx, &ledger.RoomInput{RoomID: roomID})
			return err
		},
	)
}

// EndGame ends a room whose mode limit is reached
func (s *service) EndGame(ctx context.Context) error {
	return s.act(ctx, forcer.ActionEndGame, "end the game",
		func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
			return s.machine.EndGame(&turn.EndGameInput{Game: game, Caller: s.Address(), Now: now})
		},
		func(ctx context.Context, roomID uint64) error {
			_, err := s.ledger.EndGame(ctx, &ledger.RoomInput{RoomID: roomID})
			return err
		},
	)
}

// Claim claims the winner's reward
func (s *service) Claim(ctx context.Context) error {
	return s.act(ctx, forcer.ActionClaim, "claim the reward",
		func(game *models.Game, now time.Time) (*turn.TransitionOutput, error) {
			return s.machine.Claim(&turn.ClaimInput{Game: game, Caller: s.Address(), Now: now})
		},
		func(ctx context.Context, roomID uint64) error {
			_, err := s.ledger.ClaimReward(ctx, &ledger.RoomInput{RoomID: roomID})
			return err
		},
	)
}

// act runs one in-room action: permission check, optimistic apply, broadcast, background submit
func (s *service) act(
	ctx context.Context,
	permission forcer.Action,
	action string,
	transition func(game *models.Game, now time.Time) (*turn.TransitionOutput, error),
	send func(ctx context.Context, roomID uint64) error,
) error {
	s.mu.Lock()
	runCtx, err := s.ready(action)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	roomID := s.roomID
	game := s.reconciler.View().Game
	if roomID == 0 || game == nil {
		s.setNotice(action, ErrNoRoom)
		s.mu.Unlock()
		return ErrNoRoom
	}

	now := s.clock.Now()
	if !forcer.Evaluate(game, s.Address(), now).Permits(permission) {
		err := fmt.Errorf("%w: %s", ErrActionNotPermitted, permission)
		s.setNotice(action, err)
		s.mu.Unlock()
		return err
	}

	var msgs []relay.Message
	if transition != nil {
		out, err := transition(game, now)
		if err != nil {
			s.setNotice(action, err)
			s.mu.Unlock()
			return err
		}
		msgs = s.applyLocked(messagesFor(out))
	}
	s.mu.Unlock()

	s.publish(ctx, msgs)
	s.submit(runCtx, action, func(ctx context.Context) error {
		return send(ctx, roomID)
	})
	return nil
}

// replayDraw applies a confirmed draw locally by running the draw transition
// with the ledger's numbers. When the view has drifted from the ledger only the
// draw itself is applied, and the next refresh fills in the rest.
func (s *service) replayDraw(roomID uint64, out *ledger.PlayTurnOutput) []relay.Message {
	draw := &relay.PlayerDraw{
		RoomID:        roomID,
		PlayerAddress: s.Address(),
		Draws:         out.Draws,
		Offset:        out.Offset,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roomID != roomID {
		return []relay.Message{draw}
	}

	game := s.reconciler.View().Game
	player := game.Player(s.Address())
	if player == nil || len(player.Draws) != out.Offset {
		return s.applyLocked([]relay.Message{draw})
	}

	machine, err := turn.New(&turn.Config{
		DiceRoller: dice.NewSequence(out.Draws[0], out.Draws[1]),
		MaxPlayers: s.maxPlayers,
	})
	if err != nil {
		return s.applyLocked([]relay.Message{draw})
	}

	replay, err := machine.Draw(&turn.DrawInput{Game: game, Caller: s.Address(), Now: s.clock.Now()})
	if err != nil {
		s.logger.Debug("draw replay rejected", zap.Uint64("room_id", roomID), zap.Error(err))
		return s.applyLocked([]relay.Message{draw})
	}

	return s.applyLocked(messagesFor(replay))
}

// applyLocked patches the local view with msgs. s.mu must be held.
func (s *service) applyLocked(msgs []relay.Message) []relay.Message {
	for _, msg := range msgs {
		s.reconciler.ApplyDelta(msg)
	}
	return msgs
}

// ready checks that an action can be attempted at all. s.mu must be held.
func (s *service) ready(action string) (context.Context, error) {
	if s.ledger == nil {
		s.setNotice(action, ErrNoAccount)
		return nil, ErrNoAccount
	}
	if s.runCtx == nil {
		s.setNotice(action, relay.ErrNotConnected)
		return nil, relay.ErrNotConnected
	}
	return s.runCtx, nil
}

// track switches the followed room. s.mu must be held.
func (s *service) track(roomID uint64) {
	s.roomID = roomID
	if roomID == 0 {
		s.reconciler.Leave()
		return
	}
	s.reconciler.Track(roomID)
}

// publish broadcasts msgs in order. Relay delivery is best effort.
func (s *service) publish(ctx context.Context, msgs []relay.Message) {
	for _, msg := range msgs {
		if err := s.channel.Publish(ctx, msg); err != nil {
			s.logger.Warn("failed to publish relay message",
				zap.String("type", string(msg.Type())),
				zap.Uint64("room_id", msg.Room()),
				zap.Error(err),
			)
		}
	}
}

// submit sends a mutation to the ledger in the background. Either way the
// tracked room is re-read right after, so a failure is corrected by the
// authoritative state rather than rolled back.
func (s *service) submit(ctx context.Context, action string, send func(ctx context.Context) error) {
	s.mu.Lock()
	if s.runCtx != ctx {
		// disconnected since the action was accepted
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		if err := send(ctx); err != nil {
			s.logger.Warn("ledger submission failed",
				zap.String("action", action),
				zap.String("player", s.Address()),
				zap.Error(err),
			)
			s.mu.Lock()
			s.setNotice(action, err)
			s.mu.Unlock()
		}
		signal(s.kick)
	}()
}

// setNotice records a notice for err. s.mu must be held.
func (s *service) setNotice(action string, err error) {
	n := &Notice{
		Title:   "Error",
		Message: err.Error(),
		Err:     err,
		At:      s.clock.Now(),
	}

	out, msgErr := s.messaging.GetErrorNotice(context.Background(), &messaging.GetErrorNoticeInput{
		Action: action,
		Err:    err,
	})
	if msgErr == nil {
		n.Title = out.Title
		n.Message = out.Message
	}

	s.notice = n
}

// consume applies relay deltas until ctx is done or the channel closes
func (s *service) consume(ctx context.Context, msgs <-chan relay.Message) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			s.mu.Lock()
			s.reconciler.ApplyDelta(msg)
			s.mu.Unlock()
			signal(s.bump)
		}
	}
}

// refreshLoop re-reads the ledger on a poll interval, immediately on a kick,
// and once relay traffic has been quiet for the debounce window after a bump
func (s *service) refreshLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var debounced <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		case <-s.kick:
			s.refresh(ctx)
		case <-s.bump:
			debounced = time.After(s.refreshDebounce)
		case <-debounced:
			debounced = nil
			s.refresh(ctx)
		}
	}
}

func (s *service) refresh(ctx context.Context) {
	if s.ledger == nil {
		return
	}
	if err := s.RefreshNow(ctx); err != nil && ctx.Err() == nil {
		s.logger.Debug("refresh failed", zap.Error(err))
	}
}

// signal makes a non-blocking request on ch
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
