package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis holds locks in Redis so several API instances share them.
type Redis struct {
	rs     *redsync.Redsync
	expiry time.Duration
	prefix string
	log    *zap.Logger
}

func NewRedis(client *redis.Client, expiry time.Duration, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{
		rs:     redsync.New(goredis.NewPool(client)),
		expiry: expiry,
		prefix: "wedding:lock:",
		log:    log,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	m := r.rs.NewMutex(r.prefix+key,
		redsync.WithExpiry(r.expiry),
		redsync.WithTries(64),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := m.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return func() {
		// the request context may already be done when releasing
		if _, err := m.UnlockContext(context.Background()); err != nil {
			r.log.Warn("release lock failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
