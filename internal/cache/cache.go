// Package cache wraps Redis for short-lived compatibility scores and
// fixed-window counters.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// Config holds Redis connection settings
type Config struct {
	Addrs    []string
	Password string
	DB       int
	Cluster  bool
}

// Cache is a namespaced key/value store over a single node or a cluster
type Cache struct {
	client redis.UniversalClient
}

// New connects to Redis. Cluster mode is used only when more than one
// address is configured.
func New(cfg Config) *Cache {
	var rdb redis.UniversalClient
	if cfg.Cluster && len(cfg.Addrs) > 1 {
		rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	} else {
		addr := "localhost:6379"
		if len(cfg.Addrs) > 0 {
			addr = cfg.Addrs[0]
		}
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}
	return &Cache{client: rdb}
}

// NewWithClient wraps an existing client
func NewWithClient(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

// Ping checks connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (c *Cache) Close() error {
	return c.client.Close()
}

// Get returns the stored value, or "", nil when the key does not exist
func (c *Cache) Get(ctx context.Context, namespace, key string) (string, error) {
	v, err := c.client.Get(ctx, namespace+":"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// Delete removes keys from a namespace. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = namespace + ":" + k
	}
	return c.client.Del(ctx, full...).Err()
}

// IncrWithExpire increments a counter, starting its window on first use
func (c *Cache) IncrWithExpire(ctx context.Context, namespace, key string, window time.Duration) (int64, error) {
	countKey := namespace + ":" + key

	cnt, err := c.client.Incr(ctx, countKey).Result()
	if err != nil {
		return 0, err
	}

	if cnt == 1 {
		_ = c.client.Expire(ctx, countKey, window).Err()
	}

	return cnt, nil
}

// DefaultScoreTTL is how long a cached score is served
const DefaultScoreTTL = 15 * time.Minute

const scoreNamespace = "compat"

// ScoreCache stores CompatibilityScore values as JSON under
// compat:<requester>:<candidate>
type ScoreCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewScoreCache creates a score cache. ttl <= 0 uses DefaultScoreTTL.
func NewScoreCache(c *Cache, ttl time.Duration) *ScoreCache {
	if ttl <= 0 {
		ttl = DefaultScoreTTL
	}
	return &ScoreCache{cache: c, ttl: ttl}
}

func scoreKey(requesterID, candidateID string) string {
	return requesterID + ":" + candidateID
}

// SetScores writes all scores in one pipeline
func (s *ScoreCache) SetScores(ctx context.Context, scores []*model.CompatibilityScore) error {
	if len(scores) == 0 {
		return nil
	}
	pipe := s.cache.client.Pipeline()
	for _, score := range scores {
		data, err := json.Marshal(score)
		if err != nil {
			return fmt.Errorf("encoding score: %w", err)
		}
		pipe.Set(ctx, scoreNamespace+":"+scoreKey(score.RequesterID, score.CandidateID), data, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// DeletePair drops the cached scores for both directions of a pair
func (s *ScoreCache) DeletePair(ctx context.Context, userID, otherID string) error {
	return s.cache.Delete(ctx, scoreNamespace, scoreKey(userID, otherID), scoreKey(otherID, userID))
}

// GetScore returns the cached score, or nil, nil on a miss
func (s *ScoreCache) GetScore(ctx context.Context, requesterID, candidateID string) (*model.CompatibilityScore, error) {
	raw, err := s.cache.Get(ctx, scoreNamespace, scoreKey(requesterID, candidateID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var score model.CompatibilityScore
	if err := json.Unmarshal([]byte(raw), &score); err != nil {
		return nil, fmt.Errorf("decoding cached score: %w", err)
	}
	return &score, nil
}
