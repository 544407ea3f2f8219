package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedQuiz struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T) (CacheService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRedisCache(client, logger), mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := cachedQuiz{ID: 10, Title: "Networks Midterm"}
	require.NoError(t, c.Set(ctx, "quiz:catalog:10", in, time.Minute))

	var out cachedQuiz
	require.NoError(t, c.Get(ctx, "quiz:catalog:10", &out))
	assert.Equal(t, in, out)
}

func TestRedisCache_MissingKey(t *testing.T) {
	c, _ := newTestCache(t)

	var out cachedQuiz
	err := c.Get(context.Background(), "quiz:catalog:404", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "quiz:catalog:10", cachedQuiz{ID: 10}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var out cachedQuiz
	err := c.Get(ctx, "quiz:catalog:10", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "quiz:catalog:10", cachedQuiz{ID: 10}, time.Minute))
	require.NoError(t, c.Delete(ctx, "quiz:catalog:10"))

	var out cachedQuiz
	assert.ErrorIs(t, c.Get(ctx, "quiz:catalog:10", &out), ErrCacheMiss)
}

func TestRedisCache_DeletePattern(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "quiz:catalog:10", cachedQuiz{ID: 10}, time.Minute))
	require.NoError(t, c.Set(ctx, "quiz:catalog:11", cachedQuiz{ID: 11}, time.Minute))
	require.NoError(t, c.Set(ctx, "other:1", cachedQuiz{ID: 1}, time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "quiz:catalog:*"))

	var out cachedQuiz
	assert.ErrorIs(t, c.Get(ctx, "quiz:catalog:10", &out), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "quiz:catalog:11", &out), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "other:1", &out))
}
