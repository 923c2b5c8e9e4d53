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

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	unlock, err := l.TryLock(ctx, "reconcile")
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "reconcile")
	assert.ErrorIs(t, err, ErrLockHeld)

	_, err = l.TryLock(ctx, "other")
	assert.NoError(t, err)

	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx))

	_, err = l.TryLock(ctx, "reconcile")
	assert.NoError(t, err)
}

func TestLocalLocker_OneWinnerUnderContention(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.TryLock(ctx, "reconcile"); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

// Интеграционный тест: выполняется только при заданном REDIS_ADDR
func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	l := NewRedisLocker(client, 5*time.Second)
	name := "test-" + t.Name()

	unlock, err := l.TryLock(ctx, name)
	require.NoError(t, err)

	_, err = l.TryLock(ctx, name)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, unlock(ctx))

	unlock, err = l.TryLock(ctx, name)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}
