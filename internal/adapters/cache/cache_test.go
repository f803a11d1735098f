package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := OpenRedis(mr.Addr(), "", 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.Equal(t, 2, c.Options().DB)

	_, err = OpenRedis("not-a-real-host:6379", "", 0)
	assert.Error(t, err)
}

func TestLimiterStorage(t *testing.T) {
	mr, rdb := newClient(t)
	s := NewLimiterStorage(rdb, "limiter:")

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("10.0.0.1", []byte("3"), time.Minute))
	val, err = s.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)
	assert.True(t, mr.Exists("limiter:10.0.0.1"))

	mr.FastForward(2 * time.Minute)
	val, err = s.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, val, "expired counters disappear")

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("1"), 0))
	require.NoError(t, mr.Set("unrelated", "keep"))
	require.NoError(t, s.Delete("a"))
	assert.False(t, mr.Exists("limiter:a"))

	require.NoError(t, s.Reset())
	assert.False(t, mr.Exists("limiter:b"))
	assert.True(t, mr.Exists("unrelated"))
	assert.NoError(t, s.Close())
}

func TestIdempotencyStore_Lifecycle(t *testing.T) {
	mr, rdb := newClient(t)
	store := NewIdempotencyStore(rdb, 30*time.Second, time.Hour)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k1", "hash")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "k1", "hash")
	require.NoError(t, err)
	assert.False(t, ok, "second reservation loses")

	entry, err := store.Load(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, entry.InProgress)
	assert.Equal(t, "hash", entry.BodySHA256)

	require.NoError(t, store.Complete(ctx, "k1", IdempotencyEntry{Code: 201, Body: []byte(`{"ok":true}`), BodySHA256: "hash"}))
	entry, err = store.Load(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, entry.InProgress)
	assert.Equal(t, 201, entry.Code)
	assert.Equal(t, `{"ok":true}`, string(entry.Body))
	assert.Greater(t, mr.TTL("k1"), 30*time.Second)

	require.NoError(t, store.Release(ctx, "k1"))
	_, err = store.Load(ctx, "k1")
	assert.True(t, errors.Is(err, ErrEntryNotFound))
}

func TestIdempotencyStore_LockExpires(t *testing.T) {
	mr, rdb := newClient(t)
	store := NewIdempotencyStore(rdb, 30*time.Second, time.Hour)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k2", "hash")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(31 * time.Second)
	ok, err = store.Reserve(ctx, "k2", "hash")
	require.NoError(t, err)
	assert.True(t, ok)
}
