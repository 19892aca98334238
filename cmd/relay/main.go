package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/common/logger"
	"github.com/KirkDiggler/numberjack/internal/common/uuid"
	"github.com/KirkDiggler/numberjack/internal/dice"
	"github.com/KirkDiggler/numberjack/internal/handlers/discord"
	"github.com/KirkDiggler/numberjack/internal/handlers/ws"
	"github.com/KirkDiggler/numberjack/internal/repositories/mirror"
	"github.com/KirkDiggler/numberjack/internal/services/gateway"
	"github.com/KirkDiggler/numberjack/internal/services/messaging"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	log, err := logger.New(&logger.Config{
		Level:    getEnv("LOG_LEVEL", "info"),
		Encoding: getEnv("LOG_ENCODING", "json"),
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	mirrorRepo := newMirror(ctx, log)

	var observers []gateway.Observer
	var bot *discord.Bot
	if token := getEnv("DISCORD_TOKEN", ""); token != "" {
		msgSvc, err := messaging.New(&messaging.Config{DiceRoller: dice.New(nil)})
		if err != nil {
			log.Fatal("failed to create messaging service", zap.Error(err))
		}
		bot, err = discord.New(&discord.Config{
			Token:         token,
			ApplicationID: getEnv("APPLICATION_ID", ""),
			GuildID:       getEnv("GUILD_ID", ""),
			ChannelID:     getEnv("DISCORD_CHANNEL_ID", ""),
			Messaging:     msgSvc,
			Logger:        log.Named("discord"),
		})
		if err != nil {
			log.Fatal("failed to create discord bot", zap.Error(err))
		}
		observers = append(observers, bot)
	}

	gw, err := gateway.New(&gateway.Config{
		Mirror:    mirrorRepo,
		Logger:    log.Named("gateway"),
		Observers: observers,
	})
	if err != nil {
		log.Fatal("failed to create gateway", zap.Error(err))
	}
	go func() {
		if err := gw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("gateway stopped", zap.Error(err))
		}
	}()

	if bot != nil {
		if err := bot.Start(); err != nil {
			log.Fatal("failed to start discord bot", zap.Error(err))
		}
		// the gateway observes the bot, so /rooms is registered once both exist
		if err := bot.RegisterCommand(discord.NewRoomsCommand(gw, log.Named("discord"))); err != nil {
			log.Warn("failed to register rooms command", zap.Error(err))
		}
		go func() { _ = bot.Run(ctx) }()
		defer func() {
			if err := bot.Stop(); err != nil {
				log.Warn("failed to stop discord bot", zap.Error(err))
			}
		}()
	}

	handler, err := ws.New(&ws.Config{
		Hub:    gw,
		UUID:   uuid.New(),
		Logger: log.Named("ws"),
	})
	if err != nil {
		log.Fatal("failed to create websocket handler", zap.Error(err))
	}

	server := &http.Server{
		Addr:              getEnv("RELAY_ADDR", ":8080"),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("relay listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("relay server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("relay shutdown incomplete", zap.Error(err))
	}
}

// newMirror keeps the room mirror in Redis when REDIS_ADDR is set so a restart
// does not forget open rooms, and in memory otherwise
func newMirror(ctx context.Context, log *zap.Logger) mirror.Repository {
	addr := getEnv("REDIS_ADDR", "")
	if addr == "" {
		log.Info("using in-memory room mirror")
		return mirror.NewMemory()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal("failed to connect to redis", zap.String("addr", addr), zap.Error(err))
	}

	repo, err := mirror.NewRedis(&mirror.Config{
		RedisClient: redisClient,
		TTL:         24 * time.Hour,
	})
	if err != nil {
		log.Fatal("failed to create room mirror", zap.Error(err))
	}
	log.Info("using redis room mirror", zap.String("addr", addr))
	return repo
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
