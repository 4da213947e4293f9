package secrets_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/suinership/auth/internal/auth/secrets"
)

func newTestRedisStore(t *testing.T) (*secrets.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := secrets.NewRedisStoreFromClient(client)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t)

	key := secrets.ResetKey("some-token")
	require.NoError(t, s.Put(ctx, key, "user-1", time.Minute))

	val, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "user-1", val)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	require.ErrorIs(t, err, secrets.ErrNotFound)

	require.NoError(t, s.Delete(ctx, key))
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	key := secrets.OTPKey("a@x.com")
	require.NoError(t, s.Put(ctx, key, "123456", 5*time.Minute))

	mr.FastForward(5*time.Minute + time.Second)

	_, err := s.Get(ctx, key)
	require.ErrorIs(t, err, secrets.ErrNotFound)
}

func TestRedisStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t)

	key := secrets.MFASessionKey("sess")
	require.NoError(t, s.Put(ctx, key, "user-1", time.Minute))
	require.NoError(t, s.Put(ctx, key, "user-2", time.Minute))

	val, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "user-2", val)
}
