package cache

import (
	"context"
	"errors"
	"time"

	"github.com/raywall/fast-rapidapi-toolkit/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Redis é um Cache compartilhado entre processos.
type Redis struct {
	client redis.Cmdable
}

// NewRedis usa um cliente já configurado (redis.Client, ClusterClient, ...).
func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// FromConfig escolhe o backend: Redis quando REDIS_ADDR está definido,
// memória caso contrário.
func FromConfig(cfg config.CacheConf) Cache {
	if cfg.RedisAddr == "" {
		return NewMemory()
	}
	return NewRedis(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}))
}
