// Package storage mirrors per-host activity into Redis so external
// dashboards can query it. The mirror is a live export only; the monitor
// never reads aggregate state back from it.
package storage

import (
	"context"
	"fmt"
	"time"

	"logmon/internal/logger"
	"logmon/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const (
	hourTTL = 15 * 24 * time.Hour
	dayTTL  = 90 * 24 * time.Hour
)

type Store struct {
	rdb *redis.Client
}

func Open(addr, password string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("connect to Redis at %s: %w", addr, err)
	}
	logger.Infof("connected to Redis at %s: %s", addr, pong)

	return &Store{rdb: rdb}, nil
}

// RecordActivity increments the host's counters under both the hourly and
// the daily key. The instant comes from the log line, not the wall clock,
// so replayed history lands in the right buckets.
func (s *Store) RecordActivity(ctx context.Context, host string, blocked bool, bytes int64, t time.Time) error {
	if host == "" {
		return fmt.Errorf("invalid host: empty")
	}

	keys := []struct {
		key string
		ttl time.Duration
	}{
		{utils.HostHourKey(host, t), hourTTL},
		{utils.HostDayKey(host, t), dayTTL},
	}

	for _, k := range keys {
		pipe := s.rdb.Pipeline()
		pipe.HIncrBy(ctx, k.key, "visits", 1)
		pipe.HIncrBy(ctx, k.key, "bytes", bytes)
		if blocked {
			pipe.HIncrBy(ctx, k.key, "blocked_requests", 1)
		}
		pipe.HSet(ctx, k.key, "last_seen", t.Format(time.RFC3339))
		pipe.Expire(ctx, k.key, k.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("update %s: %w", k.key, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
