package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
)

var ErrNotFound = errors.New("preference not found")

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"

	redisKeyPrefix = "tigo-prefs||"
	// freecache needs at least 512 KB
	memoryCacheSize = 1024 * 1024
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=prefs_test
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type RedisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) *RedisRepo {
	return &RedisRepo{
		rdb: rdb,
	}
}

func (r *RedisRepo) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *RedisRepo) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// MemoryRepo keeps preferences in process memory. Values are lost on restart.
type MemoryRepo struct {
	cache *freecache.Cache
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		cache: freecache.NewCache(memoryCacheSize),
	}
}

func (m *MemoryRepo) Get(_ context.Context, key string) (string, error) {
	val, err := m.cache.Get([]byte(key))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(val), nil
}

func (m *MemoryRepo) Set(_ context.Context, key, value string) error {
	return m.cache.Set([]byte(key), []byte(value), 0)
}
