package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restrictip-gateway/middleware/restrictip/domain"

	"github.com/redis/go-redis/v9"
)

type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl aplica apenas em chaves de série temporal / por endereço.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackAddrs bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackAddresses(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackAddrs = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "restrictip:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record incrementa, em um único pipeline:
//
//	<prefix>:total                 allowed|denied
//	<prefix>:policy:<kind>         allowed|denied
//	<prefix>:minute:<yyyymmddhhmm> allowed|denied (com TTL)
//	<prefix>:route                 "<METHOD> <path>:allowed|denied"
//	<prefix>:addr:<address>        allowed|denied (opcional, com TTL)
func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)
	pipe.HIncrBy(ctx, s.prefix+":policy:"+ev.Policy.String(), field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	routeField := strings.TrimSpace(strings.TrimSpace(ev.Method) + " " + strings.TrimSpace(ev.Path))
	if routeField != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", routeField+":"+field, 1)
	}

	if s.trackAddrs {
		if a := strings.TrimSpace(ev.Address); a != "" {
			addrKey := s.prefix + ":addr:" + a
			pipe.HIncrBy(ctx, addrKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, addrKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
