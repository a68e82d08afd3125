package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash used when no key is configured.
const DefaultRedisKey = "orca-invoice:settings"

const redisSaveTimeout = 5 * time.Second

// RedisStore keeps settings as fields of one Redis hash.
type RedisStore struct {
	*cache
	client *redis.Client
	key    string
}

// OpenRedis connects to addr and loads the settings hash.
func OpenRedis(ctx context.Context, addr, password string, db int, key string) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis store: empty address")
	}
	if key == "" {
		key = DefaultRedisKey
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return newRedisStore(ctx, client, key)
}

func newRedisStore(ctx context.Context, client *redis.Client, key string) (*RedisStore, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	values, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("load settings hash: %w", err)
	}
	return &RedisStore{cache: newCache(values), client: client, key: key}, nil
}

// Save writes the changed fields with one pipelined HSET.
func (r *RedisStore) Save() error {
	pending := r.pending()
	if len(pending) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisSaveTimeout)
	defer cancel()

	fields := make(map[string]interface{}, len(pending))
	for k, v := range pending {
		fields[k] = v
	}

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, r.key, fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	r.markClean(pending)
	return nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
