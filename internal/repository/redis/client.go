package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Options accepts either a redis:// URL or a bare host:port address.
func Options(addr, password string) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		if password != "" {
			opts.Password = password
		}
		return opts, nil
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	return &redis.Options{Addr: addr, Password: password, DB: 0}, nil
}

// Connect returns a client and whether Redis answered. An unreachable Redis
// does not fail startup; callers fall back to the record store.
func Connect(ctx context.Context, addr, password string) (*redis.Client, bool) {
	opts, err := Options(addr, password)
	if err != nil {
		log.Warn().Str("component", "redis").Err(err).Msg("invalid REDIS_URL, caching disabled")
		return nil, false
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Str("component", "redis").Err(err).Msg("could not connect to redis, falling back to the record store only")
		client.Close()
		return nil, false
	}

	log.Info().Str("component", "redis").Str("addr", opts.Addr).Msg("connected")
	return client, true
}

// RedisCache wraps redis.Client with the small cache surface the services use.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Set stores a key-value pair with expiration
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return val, err
}

// Del deletes keys
func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
