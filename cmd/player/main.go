package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/common/clock"
	"github.com/KirkDiggler/numberjack/internal/common/logger"
	"github.com/KirkDiggler/numberjack/internal/dice"
	"github.com/KirkDiggler/numberjack/internal/ledger"
	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/relay"
	roomRepo "github.com/KirkDiggler/numberjack/internal/repositories/room"
	"github.com/KirkDiggler/numberjack/internal/services/forcer"
	"github.com/KirkDiggler/numberjack/internal/services/session"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(&logger.Config{
		Level:    getEnv("LOG_LEVEL", "info"),
		Encoding: getEnv("LOG_ENCODING", "console"),
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	address := getEnv("PLAYER_ADDRESS", "")
	if address == "" {
		log.Fatal("PLAYER_ADDRESS is required")
	}
	log = log.With(zap.String("player", address))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// players share one simulated ledger through redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = redisClient.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}

	rooms, err := roomRepo.NewRedis(&roomRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatal("failed to create room repository", zap.Error(err))
	}

	sim, err := ledger.NewSimulated(&ledger.SimulatedConfig{
		Repository:   rooms,
		DiceRoller:   dice.New(nil),
		Clock:        &clock.DefaultClock{},
		Logger:       log.Named("ledger"),
		ConfirmDelay: getDuration("CONFIRM_DELAY", 2*time.Second),
	})
	if err != nil {
		log.Fatal("failed to create ledger", zap.Error(err))
	}
	account, err := sim.ClientFor(address)
	if err != nil {
		log.Fatal("failed to connect account", zap.Error(err))
	}

	channel, err := relay.NewClient(&relay.Config{
		URL:    getEnv("RELAY_URL", "ws://localhost:8080/ws"),
		Logger: log.Named("relay"),
	})
	if err != nil {
		log.Fatal("failed to create relay client", zap.Error(err))
	}

	sess, err := session.New(&session.Config{
		Ledger:       account,
		Channel:      channel,
		Logger:       log.Named("session"),
		PollInterval: getDuration("POLL_INTERVAL", session.DefaultPollInterval),
	})
	if err != nil {
		log.Fatal("failed to create session", zap.Error(err))
	}

	if err := sess.Connect(ctx); err != nil {
		log.Fatal("failed to connect to relay", zap.Error(err))
	}
	defer sess.Disconnect()

	if err := enterRoom(ctx, sess); err != nil {
		log.Fatal("failed to enter room", zap.Error(err))
	}

	p := &player{
		session:   sess,
		logger:    log,
		standOn:   getInt("STAND_ON", 17),
		lastState: "",
	}
	if err := p.play(ctx, getDuration("ACT_INTERVAL", time.Second)); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("player stopped", zap.Error(err))
	}
}

// enterRoom joins ROOM_ID when set and creates a room otherwise
func enterRoom(ctx context.Context, sess session.Session) error {
	if id := getEnv("ROOM_ID", ""); id != "" {
		roomID, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return err
		}
		return sess.JoinRoom(ctx, &session.JoinRoomInput{RoomID: roomID})
	}

	mode := models.GameModeRounds
	if getEnv("GAME_MODE", "rounds") == "time" {
		mode = models.GameModeTimeBased
	}
	return sess.CreateRoom(ctx, &session.CreateRoomInput{
		MaxNumber:   getInt("MAX_NUMBER", 21),
		Mode:        mode,
		ModeValue:   int64(getInt("MODE_VALUE", 5)),
		TurnTimeout: getDuration("TURN_TIMEOUT", 30*time.Second),
	})
}

// player takes whatever action the session permits, drawing until its total
// reaches standOn and skipping after that
type player struct {
	session   session.Session
	logger    *zap.Logger
	standOn   int
	lastState string
}

func (p *player) play(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if n := p.session.Notice(); n != nil {
			p.logger.Warn(n.Title, zap.String("message", n.Message))
		}

		view := p.session.View()
		if view.Game == nil || view.Game.Room == nil {
			continue
		}
		p.report(view.Game)

		if err := p.act(ctx, view.Game); err != nil {
			p.logger.Warn("action rejected", zap.Error(err))
		}

		room := view.Game.Room
		if room.Status == models.RoomStatusEnded && !p.session.Evaluate().Permits(forcer.ActionClaim) {
			p.logger.Info("room ended", zap.Uint64("room_id", room.ID), zap.String("winner", room.Winner))
			return nil
		}
	}
}

func (p *player) act(ctx context.Context, game *models.Game) error {
	eval := p.session.Evaluate()
	switch {
	case eval.Permits(forcer.ActionStart) && len(game.Room.Players) >= 2:
		return p.session.StartGame(ctx)
	case eval.Permits(forcer.ActionDraw):
		me := game.Player(p.session.Address())
		if me != nil && me.Total >= p.standOn && eval.Permits(forcer.ActionSkip) {
			return p.session.Skip(ctx)
		}
		return p.session.Draw(ctx)
	case eval.Permits(forcer.ActionForceAdvance):
		return p.session.ForceAdvance(ctx)
	case eval.Permits(forcer.ActionEndGame):
		return p.session.EndGame(ctx)
	case eval.Permits(forcer.ActionClaim):
		return p.session.Claim(ctx)
	}
	return nil
}

// report logs the room only when something visible changed
func (p *player) report(game *models.Game) {
	state := string(game.Room.Status) + "/" + game.Room.CurrentPlayer() + "/" + strconv.FormatInt(game.Room.CurrentRound, 10)
	if state == p.lastState {
		return
	}
	p.lastState = state

	fields := []zap.Field{
		zap.Uint64("room_id", game.Room.ID),
		zap.String("status", string(game.Room.Status)),
		zap.String("current", game.Room.CurrentPlayer()),
		zap.Int64("round", game.Room.CurrentRound),
	}
	if me := game.Player(p.session.Address()); me != nil {
		fields = append(fields, zap.Int("total", me.Total), zap.Bool("active", me.Active))
	}
	p.logger.Info("room", fields...)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
