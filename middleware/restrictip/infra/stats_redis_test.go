package infra

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restrictip-gateway/middleware/restrictip/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisStatsStore_Record(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStatsStore(rdb,
		WithStatsPrefix("test:stats:"),
		WithStatsTTL(time.Hour),
		WithStatsTrackAddresses(true),
	)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Address: "2.2.2.2", Policy: domain.KindAllow, Allowed: false, Method: "GET", Path: "/", At: at}))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Address: "5.5.5.5", Policy: domain.KindAllow, Allowed: true, Method: "GET", Path: "/", At: at}))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Address: "2.2.2.2", Policy: domain.KindAllow, Allowed: false, Method: "GET", Path: "/", At: at}))

	assert.Equal(t, "1", mr.HGet("test:stats:total", "allowed"))
	assert.Equal(t, "2", mr.HGet("test:stats:total", "denied"))
	assert.Equal(t, "2", mr.HGet("test:stats:policy:allow", "denied"))
	assert.Equal(t, "2", mr.HGet("test:stats:minute:202601020304", "denied"))
	assert.Equal(t, "1", mr.HGet("test:stats:route", "GET /:allowed"))
	assert.Equal(t, "2", mr.HGet("test:stats:addr:2.2.2.2", "denied"))

	assert.Equal(t, time.Hour, mr.TTL("test:stats:minute:202601020304"))
	assert.Equal(t, time.Hour, mr.TTL("test:stats:addr:2.2.2.2"))
	assert.Equal(t, time.Duration(0), mr.TTL("test:stats:total"))
}

func TestRedisStatsStore_NoBucketNoAddresses(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStatsStore(rdb, WithStatsBucket(" None "))

	require.NoError(t, s.Record(context.Background(), domain.StatsEvent{Address: "4.4.4.4", Policy: domain.KindDeny, Allowed: false}))

	assert.Equal(t, "1", mr.HGet("restrictip:stats:total", "denied"))
	assert.Equal(t, "1", mr.HGet("restrictip:stats:policy:deny", "denied"))
	assert.False(t, mr.Exists("restrictip:stats:addr:4.4.4.4"))
	assert.False(t, mr.Exists("restrictip:stats:route"))
	for _, k := range mr.Keys() {
		assert.NotContains(t, k, ":minute:")
	}
}

func TestRedisStatsStore_NilIsNoop(t *testing.T) {
	var s *RedisStatsStore
	assert.NoError(t, s.Record(context.Background(), domain.StatsEvent{}))
}

func TestRedisStatsStore_ErrorWhenServerDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	s := NewRedisStatsStore(rdb)
	assert.Error(t, s.Record(context.Background(), domain.StatsEvent{Address: "4.4.4.4", Policy: domain.KindDeny}))
}
