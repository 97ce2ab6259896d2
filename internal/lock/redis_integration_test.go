//go:build integration

package lock

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: getEnv("TEST_REDIS_ADDR", "localhost:6379")})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedis_SerializesAcrossLockers(t *testing.T) {
	client := newTestRedis(t)
	lockers := []*Redis{NewRedis(client, 5*time.Second, nil), NewRedis(client, 5*time.Second, nil)}

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(l *Redis) {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "package:it")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}(lockers[i%2])
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestRedis_HeldLockTimesOut(t *testing.T) {
	client := newTestRedis(t)
	l := NewRedis(client, 5*time.Second, nil)

	unlock, err := l.Lock(context.Background(), "template:it")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "template:it")
	assert.Error(t, err)
}
