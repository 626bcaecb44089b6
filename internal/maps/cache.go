package maps

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"geolocation_backend/internal/geo"
	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const cacheKeyPrefix = "geocode:"

// GeocodeCache stores forward geocoding results. Implementations swallow
// their own failures: a broken cache must never fail a lookup.
type GeocodeCache interface {
	Get(ctx context.Context, query string) (geo.Coordinate, bool)
	Set(ctx context.Context, query string, coord geo.Coordinate)
}

// RedisGeocodeCache keeps results in Redis with a fixed TTL.
type RedisGeocodeCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisClient connects to the cache Redis described by cfg.
func NewRedisClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func NewRedisGeocodeCache(client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl, log: log}
}

func (c *RedisGeocodeCache) Get(ctx context.Context, query string) (geo.Coordinate, bool) {
	raw, err := c.client.Get(ctx, CacheKey(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return geo.Coordinate{}, false
	}
	if err != nil {
		c.log.UpstreamError("redis", "geocode_cache.get", err)
		return geo.Coordinate{}, false
	}

	var coord geo.Coordinate
	if err := json.Unmarshal(raw, &coord); err != nil || coord.Validate() != nil {
		c.log.Warn("discarding unreadable geocode cache entry", "key", CacheKey(query))
		return geo.Coordinate{}, false
	}
	return coord, true
}

func (c *RedisGeocodeCache) Set(ctx context.Context, query string, coord geo.Coordinate) {
	raw, err := json.Marshal(coord)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, CacheKey(query), raw, c.ttl).Err(); err != nil {
		c.log.UpstreamError("redis", "geocode_cache.set", err)
	}
}

// CacheKey normalizes a free-text query so trivially different spellings of
// the same address share an entry: NFKC, case folding, collapsed whitespace.
func CacheKey(query string) string {
	normalized := norm.NFKC.String(query)
	normalized = cases.Fold().String(normalized)
	normalized = strings.Join(strings.Fields(normalized), " ")
	return cacheKeyPrefix + normalized
}

var _ GeocodeCache = (*RedisGeocodeCache)(nil)
