package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	roomKeyPrefix   = "room:"
	statusKeyPrefix = "rooms:status:"
	nextIDKey       = "rooms:next_id"

	// DefaultMaxRetries bounds optimistic transaction attempts per update
	DefaultMaxRetries = 10
)

var allStatuses = []models.RoomStatus{
	models.RoomStatusNotStarted,
	models.RoomStatusInProgress,
	models.RoomStatusEnded,
}

// Config holds configuration for the Redis room repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// MaxRetries for WATCH transactions, defaults to DefaultMaxRetries
	MaxRetries int
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client     *redis.Client
	maxRetries int
}

// NewRedis creates a new Redis-backed room repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	return &redisRepository{
		client:     cfg.RedisClient,
		maxRetries: maxRetries,
	}, nil
}

func roomKey(id uint64) string {
	return roomKeyPrefix + strconv.FormatUint(id, 10)
}

func statusKey(status models.RoomStatus) string {
	return statusKeyPrefix + string(status)
}

// CreateGame allocates the next room ID with INCR and stores the built game
func (r *redisRepository) CreateGame(ctx context.Context, input *CreateGameInput) (*models.Game, error) {
	if input == nil || input.Build == nil {
		return nil, errors.New("input and build func cannot be nil")
	}

	id, err := r.client.Incr(ctx, nextIDKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate room id: %w", err)
	}

	game, err := input.Build(uint64(id))
	if err != nil {
		return nil, err
	}
	if game == nil || game.Room == nil {
		return nil, errors.New("build func returned no room")
	}

	game.Room.ID = uint64(id)
	game.Room.Version = 1

	gameJSON, err := json.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, roomKey(game.Room.ID), gameJSON, 0)
		pipe.SAdd(ctx, statusKey(game.Room.Status), game.Room.ID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	return game, nil
}

// GetGame retrieves a game by room ID from Redis
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	gameJSON, err := r.client.Get(ctx, roomKey(input.RoomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var game models.Game
	if err := json.Unmarshal(gameJSON, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

// UpdateGame runs Apply inside a WATCH transaction on the room key, retrying when
// another writer got there first
func (r *redisRepository) UpdateGame(ctx context.Context, input *UpdateGameInput) (*models.Game, error) {
	if input == nil || input.Apply == nil {
		return nil, errors.New("input and apply func cannot be nil")
	}

	key := roomKey(input.RoomID)
	var updated *models.Game

	txf := func(tx *redis.Tx) error {
		gameJSON, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("failed to get game: %w", err)
		}

		var current models.Game
		if err := json.Unmarshal(gameJSON, &current); err != nil {
			return fmt.Errorf("failed to unmarshal game: %w", err)
		}

		next, err := input.Apply(current.Clone())
		if err != nil {
			return err
		}
		if next == nil || next.Room == nil {
			return errors.New("apply func returned no room")
		}

		next.Room.ID = current.Room.ID
		next.Room.Version = current.Room.Version + 1

		nextJSON, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, nextJSON, 0)
			if current.Room.Status != next.Room.Status {
				pipe.SRem(ctx, statusKey(current.Room.Status), current.Room.ID)
				pipe.SAdd(ctx, statusKey(next.Room.Status), current.Room.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}

		updated = next
		return nil
	}

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, ErrConflict
}

// ListGames retrieves games by status, ordered by room ID
func (r *redisRepository) ListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error) {
	statuses := allStatuses
	if input != nil && input.Status != "" {
		statuses = []models.RoomStatus{input.Status}
	}

	keys := make([]string, 0, len(statuses))
	for _, status := range statuses {
		keys = append(keys, statusKey(status))
	}

	members, err := r.client.SUnion(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get room ids: %w", err)
	}

	if len(members) == 0 {
		return &ListGamesOutput{Games: []*models.Game{}}, nil
	}

	pipe := r.client.Pipeline()
	commands := make([]*redis.StringCmd, 0, len(members))
	for _, member := range members {
		commands = append(commands, pipe.Get(ctx, roomKeyPrefix+member))
	}

	// redis.Nil on individual commands is handled below
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	games := make([]*models.Game, 0, len(members))
	for i, cmd := range commands {
		gameJSON, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Room was deleted between reading the index and fetching it
				continue
			}
			return nil, fmt.Errorf("failed to get game %s: %w", members[i], err)
		}

		var game models.Game
		if err := json.Unmarshal(gameJSON, &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game %s: %w", members[i], err)
		}
		games = append(games, &game)
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].Room.ID < games[j].Room.ID
	})

	return &ListGamesOutput{Games: games}, nil
}
