package feedcache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when nothing is cached under the key.
var ErrMiss = errors.New("feed cache miss")

// FeedCache stores rendered feed pages for a short, fixed time.
type FeedCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
