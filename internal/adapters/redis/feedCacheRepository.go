package redis

import (
	"context"
	"errors"
	"time"

	"yatube/internal/ports/feedcache"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "yatube:feed:"

// FeedCacheRedis keeps rendered feed pages in Redis strings with a TTL.
type FeedCacheRedis struct {
	Client *redis.Client
	Logger *zap.Logger
}

func NewFeedCacheRedis(client *redis.Client, logger *zap.Logger) *FeedCacheRedis {
	return &FeedCacheRedis{
		Client: client,
		Logger: logger,
	}
}

func (r *FeedCacheRedis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.Client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, feedcache.ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *FeedCacheRedis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.Client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return err
	}
	r.Logger.Debug("Cached feed page", zap.String("key", keyPrefix+key), zap.Duration("ttl", ttl))
	return nil
}
