package locker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "salon:lock:"

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLocker(client, testPrefix), mr
}

func TestRedisLocker_LockAndUnlock(t *testing.T) {
	l, mr := newRedisLocker(t)
	key := "slots:1:2025-10-15"

	unlock, err := l.Lock(context.Background(), key, time.Minute)
	require.NoError(t, err)

	assert.True(t, mr.Exists(testPrefix+key))
	assert.Equal(t, time.Minute, mr.TTL(testPrefix+key))

	unlock()
	assert.False(t, mr.Exists(testPrefix+key))

	// повторный вызов безопасен
	unlock()
}

func TestRedisLocker_Exclusive(t *testing.T) {
	l, _ := newRedisLocker(t)
	key := "slots:1:2025-10-15"

	unlock, err := l.Lock(context.Background(), key, time.Minute)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := l.Lock(context.Background(), key, time.Minute)
		if assert.NoError(t, err) {
			close(acquired)
			second()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held lock")
	case <-time.After(5 * retryInterval):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second holder did not acquire the released lock")
	}
}

func TestRedisLocker_ContextCancelledWhileWaiting(t *testing.T) {
	l, mr := newRedisLocker(t)
	key := "slots:2:2025-10-15"

	unlock, err := l.Lock(context.Background(), key, time.Minute)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 3*retryInterval)
	defer cancel()

	_, err = l.Lock(ctx, key, time.Minute)
	assert.ErrorIs(t, err, ErrNotAcquired)

	// чужая блокировка не тронута
	assert.True(t, mr.Exists(testPrefix+key))
}

func TestRedisLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	l, mr := newRedisLocker(t)
	key := "slots:3:2025-10-15"
	fullKey := testPrefix + key

	staleUnlock, err := l.Lock(context.Background(), key, time.Second)
	require.NoError(t, err)
	staleToken, err := mr.Get(fullKey)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists(fullKey))

	unlock, err := l.Lock(context.Background(), key, time.Minute)
	require.NoError(t, err)
	ownerToken, err := mr.Get(fullKey)
	require.NoError(t, err)
	require.NotEqual(t, staleToken, ownerToken)

	staleUnlock()

	got, err := mr.Get(fullKey)
	require.NoError(t, err)
	assert.Equal(t, ownerToken, got)

	unlock()
	assert.False(t, mr.Exists(fullKey))
}

func TestRedisLocker_DefaultTTL(t *testing.T) {
	l, mr := newRedisLocker(t)

	unlock, err := l.Lock(context.Background(), "k", 0)
	require.NoError(t, err)
	defer unlock()

	assert.Equal(t, DefaultTTL, mr.TTL(testPrefix+"k"))
}

func TestRedisLocker_LockMany(t *testing.T) {
	l, mr := newRedisLocker(t)

	unlock, err := LockMany(context.Background(), l, time.Minute, "slots:2:2025-10-15", "slots:1:2025-10-15", "slots:2:2025-10-15")
	require.NoError(t, err)

	assert.True(t, mr.Exists(testPrefix+"slots:1:2025-10-15"))
	assert.True(t, mr.Exists(testPrefix+"slots:2:2025-10-15"))

	unlock()
	assert.Empty(t, mr.Keys())
}
