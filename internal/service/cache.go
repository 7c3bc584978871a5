package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pageza/pantrymatch/backend/internal/matching"
	"github.com/redis/go-redis/v9"
)

// SuggestionCache stores ranked results. Entries are scoped by a generation
// number; bumping the generation orphans every earlier entry.
type SuggestionCache interface {
	Generation(ctx context.Context) (int64, error)
	Bump(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string) ([]matching.MatchResult, bool, error)
	Set(ctx context.Context, key string, results []matching.MatchResult) error
}

// RedisSuggestionCache is a SuggestionCache backed by redis.
type RedisSuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisSuggestionCache creates a new RedisSuggestionCache instance
func NewRedisSuggestionCache(client *redis.Client, ttl time.Duration) *RedisSuggestionCache {
	return &RedisSuggestionCache{client: client, ttl: ttl, prefix: "suggest"}
}

func (c *RedisSuggestionCache) generationKey() string {
	return c.prefix + ":generation"
}

// Generation returns the current cache generation, zero if never bumped.
func (c *RedisSuggestionCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return gen, nil
}

// Bump starts a new cache generation.
func (c *RedisSuggestionCache) Bump(ctx context.Context) (int64, error) {
	gen, err := c.client.Incr(ctx, c.generationKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump cache generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached results for key.
func (c *RedisSuggestionCache) Get(ctx context.Context, key string) ([]matching.MatchResult, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+":"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached suggestions: %w", err)
	}

	var results []matching.MatchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached suggestions: %w", err)
	}
	return results, true, nil
}

// Set stores results under key until the TTL expires.
func (c *RedisSuggestionCache) Set(ctx context.Context, key string, results []matching.MatchResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+":"+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache suggestions: %w", err)
	}
	return nil
}

// cacheKey identifies a suggestion request against one snapshot. Ingredients
// must already be normalized, deduplicated and sorted so equivalent requests
// share an entry.
func cacheKey(generation int64, snapshotVersion uint64, ingredients []string, maxResults int, allowSubst bool) string {
	h := sha256.Sum256([]byte(strings.Join(ingredients, "\x00")))
	return strings.Join([]string{
		"g" + strconv.FormatInt(generation, 10),
		"v" + strconv.FormatUint(snapshotVersion, 10),
		"n" + strconv.Itoa(maxResults),
		"s" + strconv.FormatBool(allowSubst),
		hex.EncodeToString(h[:16]),
	}, ":")
}
