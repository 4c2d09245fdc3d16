package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"topic-pulse/internal/model"

	"github.com/redis/go-redis/v9"
)

// recentKey indexes stored reports by generation time.
const recentKey = "pulse:reports:recent"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore keeps reports for ttl; a non-positive ttl keeps them forever.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func reportKey(topic string) string {
	return fmt.Sprintf("pulse:report:%s", topic)
}

// SaveReport replaces the latest report for its topic.
func (s *RedisStore) SaveReport(ctx context.Context, r model.Report) error {
	if r.Topic == "" {
		return errors.New("storage: report has no topic")
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, reportKey(r.Topic), b, s.ttl).Err(); err != nil {
		return err
	}
	z := redis.Z{Score: float64(r.GeneratedAt.Unix()), Member: r.Topic}
	return s.rdb.ZAdd(ctx, recentKey, z).Err()
}

// LatestReport returns the stored report for topic. found is false when there is none.
func (s *RedisStore) LatestReport(ctx context.Context, topic string) (model.Report, bool, error) {
	var r model.Report
	b, err := s.rdb.Get(ctx, reportKey(topic)).Bytes()
	if err == redis.Nil {
		return r, false, nil
	}
	if err != nil {
		return r, false, err
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, false, fmt.Errorf("storage: decode report %q: %w", topic, err)
	}
	return r, true, nil
}

// RecentTopics lists up to n topics with a stored report, newest first. Topics
// whose report has expired are dropped from the index as they are found.
func (s *RedisStore) RecentTopics(ctx context.Context, n int) ([]model.ReportRef, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := s.rdb.ZRevRangeWithScores(ctx, recentKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.ReportRef, 0, len(zs))
	for _, z := range zs {
		topic, _ := z.Member.(string)
		exists, err := s.rdb.Exists(ctx, reportKey(topic)).Result()
		if err != nil {
			return nil, err
		}
		if exists == 0 {
			if err := s.rdb.ZRem(ctx, recentKey, topic).Err(); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, model.ReportRef{Topic: topic, GeneratedAt: time.Unix(int64(z.Score), 0).UTC()})
	}
	return out, nil
}
