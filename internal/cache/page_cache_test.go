package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestIndexPageKey(t *testing.T) {
	assert.Equal(t, "index_page:1", IndexPageKey(1))
	assert.Equal(t, "index_page:12", IndexPageKey(12))
}

func TestRedisPageCache_GetSetExpire(t *testing.T) {
	mr, rdb := setupRedis(t)
	pc := NewRedisPageCache(rdb, "test:")
	ctx := context.Background()

	_, ok, err := pc.Get(ctx, "index_page:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, pc.Set(ctx, "index_page:1", []byte(`{"items":[]}`), 20*time.Second))
	assert.True(t, mr.Exists("test:index_page:1"))

	got, ok, err := pc.Get(ctx, "index_page:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"items":[]}`, string(got))

	mr.FastForward(21 * time.Second)
	_, ok, err = pc.Get(ctx, "index_page:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisPageCache_SetWithoutTTLStoresNothing(t *testing.T) {
	mr, rdb := setupRedis(t)
	pc := NewRedisPageCache(rdb, "test:")
	ctx := context.Background()

	require.NoError(t, pc.Set(ctx, IndexPageKey(1), []byte("x"), 0))
	assert.False(t, mr.Exists("test:index_page:1"))

	_, ok, err := pc.Get(ctx, IndexPageKey(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisPageCache_ClearRequiresPrefix(t *testing.T) {
	mr, rdb := setupRedis(t)
	require.NoError(t, mr.Set("rl:login:ip:1.2.3.4", "3"))

	err := NewRedisPageCache(rdb, "").Clear(context.Background())
	assert.ErrorIs(t, err, ErrEmptyPrefix)
	assert.True(t, mr.Exists("rl:login:ip:1.2.3.4"))
}

func TestRedisPageCache_ClearOnlyTouchesPrefix(t *testing.T) {
	mr, rdb := setupRedis(t)
	pc := NewRedisPageCache(rdb, "test:")
	ctx := context.Background()

	for i := 1; i <= 250; i++ {
		require.NoError(t, pc.Set(ctx, IndexPageKey(i), []byte("x"), time.Minute))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, pc.Clear(ctx))

	_, ok, err := pc.Get(ctx, IndexPageKey(1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, mr.Keys(), 1)
	assert.True(t, mr.Exists("other:key"))
}

func TestRedisPageCache_GetErrorWhenDown(t *testing.T) {
	mr, rdb := setupRedis(t)
	pc := NewRedisPageCache(rdb, "test:")
	mr.Close()

	_, ok, err := pc.Get(context.Background(), "index_page:1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewPageCache_NilClientIsNop(t *testing.T) {
	pc := NewPageCache(nil, "test:")
	require.IsType(t, NopPageCache{}, pc)

	ctx := context.Background()
	require.NoError(t, pc.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, err := pc.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, pc.Clear(ctx))
}
