package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	roomKeyPrefix = "relay:room:"
	roomsKey      = "relay:rooms"
)

// Config holds configuration for the Redis mirror repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// TTL expires rooms nobody has touched for a while, zero keeps them until deleted
	TTL time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed mirror repository
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

	return &redisRepository{
		client: cfg.RedisClient,
		ttl:    cfg.TTL,
	}, nil
}

func roomKey(id uint64) string {
	return roomKeyPrefix + strconv.FormatUint(id, 10)
}

// SaveRoom persists a mirrored room to Redis
func (r *redisRepository) SaveRoom(ctx context.Context, input *SaveRoomInput) error {
	if input == nil || input.Game == nil || input.Game.Room == nil {
		return errors.New("input and room cannot be nil")
	}

	roomJSON, err := json.Marshal(input.Game)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	id := input.Game.Room.ID
	pipe := r.client.Pipeline()
	pipe.Set(ctx, roomKey(id), roomJSON, r.ttl)
	pipe.SAdd(ctx, roomsKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	return nil
}

// GetRoom retrieves a mirrored room from Redis
func (r *redisRepository) GetRoom(ctx context.Context, input *GetRoomInput) (*models.Game, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	roomJSON, err := r.client.Get(ctx, roomKey(input.RoomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var game models.Game
	if err := json.Unmarshal(roomJSON, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &game, nil
}

// ListRooms retrieves every mirrored room, pruning index entries whose key expired
func (r *redisRepository) ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error) {
	ids, err := r.client.SMembers(ctx, roomsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get room ids: %w", err)
	}

	games := make([]*models.Game, 0, len(ids))
	if len(ids) == 0 {
		return &ListRoomsOutput{Games: games}, nil
	}

	pipe := r.client.Pipeline()
	commands := make([]*redis.StringCmd, 0, len(ids))
	for _, id := range ids {
		commands = append(commands, pipe.Get(ctx, roomKeyPrefix+id))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}

	var expired []interface{}
	for i, cmd := range commands {
		roomJSON, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				expired = append(expired, ids[i])
				continue
			}
			return nil, fmt.Errorf("failed to get room %s: %w", ids[i], err)
		}

		var game models.Game
		if err := json.Unmarshal(roomJSON, &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal room %s: %w", ids[i], err)
		}
		games = append(games, &game)
	}

	if len(expired) > 0 {
		if err := r.client.SRem(ctx, roomsKey, expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired rooms: %w", err)
		}
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].Room.ID < games[j].Room.ID
	})

	return &ListRoomsOutput{Games: games}, nil
}

// DeleteRoom removes a mirrored room from Redis
func (r *redisRepository) DeleteRoom(ctx context.Context, input *DeleteRoomInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, roomKey(input.RoomID))
	pipe.SRem(ctx, roomsKey, input.RoomID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}
