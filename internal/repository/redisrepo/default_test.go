package redisrepo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cached struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb), mr
}

func TestSetJSONAndGet(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetJSON(ctx, "k", cached{Name: "alice", Count: 2}, time.Minute))

	got, err := Get[cached](repo.Default, ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, &cached{Name: "alice", Count: 2}, got)

	mr.FastForward(2 * time.Minute)
	_, err = Get[cached](repo.Default, ctx, "k")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestGet_Corrupt(t *testing.T) {
	repo, mr := newTestRepo(t)
	require.NoError(t, mr.Set("k", "{not json"))

	_, err := Get[cached](repo.Default, context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, redis.Nil)
}

func TestDel(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	for _, key := range UserKeys(a, b) {
		require.NoError(t, repo.SetJSON(ctx, key, cached{}, time.Minute))
	}

	require.NoError(t, repo.Del(ctx, UserKeys(a, b)...))
	assert.False(t, mr.Exists(UserKey(a)))
	assert.False(t, mr.Exists(UserKey(b)))

	require.NoError(t, repo.Del(ctx))
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("6f1c1a55-3b8e-4b6b-9a2e-1d3c5e7f9a0b")
	assert.Equal(t, "user:6f1c1a55-3b8e-4b6b-9a2e-1d3c5e7f9a0b", UserKey(id))
	assert.Equal(t, "search-results:ali:10:20", SearchResultsKey("ali", 10, 20))
}
