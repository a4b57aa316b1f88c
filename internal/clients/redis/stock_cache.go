package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

// StatusCache is a small read-side cache for stock status projections. The
// subsystem is fully functional without it; callers hold a nil-safe wrapper
// and treat every miss as a plain database read.
type StatusCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
	Close() error
}

type statusCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewStatusCache connects using REDIS_ADDR; a missing address is an error the
// caller downgrades to "cache disabled".
func NewStatusCache(log *logger.Logger) (StatusCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &statusCache{
		log: log.With("service", "RedisStatusCache"),
		rdb: rdb,
	}, nil
}

func (sc *statusCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := sc.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		sc.log.Warn("Cache get failed", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

func (sc *statusCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if err := sc.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		sc.log.Warn("Cache set failed", "key", key, "error", err)
	}
}

func (sc *statusCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := sc.rdb.Del(ctx, keys...).Err(); err != nil {
		sc.log.Warn("Cache invalidate failed", "keys", len(keys), "error", err)
	}
}

func (sc *statusCache) Close() error {
	return sc.rdb.Close()
}
