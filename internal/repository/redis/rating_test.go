package redis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/health"
)

func setupTestRedis(t *testing.T) (*RatingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRatingCache(client, 10*time.Minute), mr
}

func sampleSummary(userID string) *domain.RatingSummary {
	return &domain.RatingSummary{
		UserID:        userID,
		Average:       3.7,
		AverageSkill:  4.5,
		Count:         3,
		RecommendRate: 0.67,
	}
}

func TestRatingCache_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	got, err := cache.Get(context.Background(), "bob")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRatingCache_SetThenGet(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleSummary("bob")))
	assert.True(t, mr.Exists("skillswap:rating:bob"))
	assert.Equal(t, 10*time.Minute, mr.TTL("skillswap:rating:bob"))

	got, err := cache.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, sampleSummary("bob"), got)
}

func TestRatingCache_Expires(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleSummary("bob")))
	mr.FastForward(11 * time.Minute)

	got, err := cache.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRatingCache_Invalidate(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleSummary("alice")))
	require.NoError(t, cache.Set(ctx, sampleSummary("bob")))
	require.NoError(t, cache.Invalidate(ctx, "alice", "bob", "carol"))

	assert.False(t, mr.Exists("skillswap:rating:alice"))
	assert.False(t, mr.Exists("skillswap:rating:bob"))
	assert.NoError(t, cache.Invalidate(ctx))
}

func TestRatingCache_CorruptEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("skillswap:rating:bob", "{not json"))

	_, err := cache.Get(context.Background(), "bob")
	assert.ErrorContains(t, err, "unmarshal rating")
}

func TestRatingCache_ServerDown(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "bob")
	assert.ErrorContains(t, err, "redis get rating")
	assert.Error(t, cache.Ping(context.Background()))
}

func TestRatingCache_PingAsReadinessCheck(t *testing.T) {
	cache, mr := setupTestRedis(t)
	h := health.NewHandler()
	h.RegisterNonCritical("redis", cache.Ping)

	ready := func() health.Response {
		rec := httptest.NewRecorder()
		h.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp health.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		return resp
	}

	assert.Equal(t, health.StatusUp, ready().Checks["redis"].Status)

	mr.Close()

	resp := ready()
	assert.Equal(t, health.StatusDegraded, resp.Status)
	assert.Equal(t, health.StatusDown, resp.Checks["redis"].Status)
}
