package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/handiism/tunegrab/internal/model"
)

const defaultRedisPrefix = "tunegrab:"

// RedisStore keeps history in redis. Each record is a JSON string under
// "<prefix>track:<query>"; sessions are a JSON list under "<prefix>sessions".
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts Options) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis not available at %s: %w", opts.RedisAddr, err)
	}

	return &RedisStore{
		client: client,
		prefix: defaultRedisPrefix,
		ttl:    opts.TTL,
		now:    time.Now,
	}, nil
}

func (s *RedisStore) trackKey(query string) string {
	return s.prefix + "track:" + query
}

func (s *RedisStore) sessionsKey() string {
	return s.prefix + "sessions"
}

// Record upserts the outcome under its query. A skipped outcome never
// replaces an existing record.
func (s *RedisStore) Record(ctx context.Context, outcome model.Outcome) error {
	if outcome.Query == "" {
		return fmt.Errorf("cannot record outcome without query")
	}

	data, err := json.Marshal(newRecord(outcome, s.now()))
	if err != nil {
		return err
	}

	if outcome.Status == model.StatusSkipped {
		return s.client.SetNX(ctx, s.trackKey(outcome.Query), data, s.ttl).Err()
	}
	return s.client.Set(ctx, s.trackKey(outcome.Query), data, s.ttl).Err()
}

// RecordSession appends a batch summary.
func (s *RedisStore) RecordSession(ctx context.Context, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.sessionsKey(), data)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.sessionsKey(), s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// FailedTracks returns tracks whose latest outcome is failed, ordered by query.
func (s *RedisStore) FailedTracks(ctx context.Context) ([]model.Track, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return failedTracks(records), nil
}

// Stats computes statistics over all stored records and sessions.
func (s *RedisStore) Stats(ctx context.Context, now time.Time) (Stats, error) {
	records, err := s.records(ctx)
	if err != nil {
		return Stats{}, err
	}

	raw, err := s.client.LRange(ctx, s.sessionsKey(), 0, -1).Result()
	if err != nil {
		return Stats{}, err
	}

	sessions := make([]Session, 0, len(raw))
	for _, v := range raw {
		var sess Session
		if err := json.Unmarshal([]byte(v), &sess); err != nil {
			return Stats{}, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	return computeStats(records, sessions, now), nil
}

// records scans every track key. Keys that expire between SCAN and MGET
// come back nil and are skipped.
func (s *RedisStore) records(ctx context.Context) ([]Record, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, s.trackKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	sort.Strings(keys)

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}

		var r Record
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", strings.TrimPrefix(keys[i], s.prefix), err)
		}
		records = append(records, r)
	}

	return records, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
