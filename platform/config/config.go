// Package config loads settings from the environment and an optional .env
// file. Packages accept the narrow interface they need rather than *Config.
package config

import (
	"strings"
	"time"
)

type GeocoderConfig interface {
	GetNominatimURL() string
	GetUserAgent() string
	GetUpstreamTimeout() time.Duration
	GetNominatimRatePerSecond() float64
}

// OverpassConfig provides settings for the points-of-interest fetcher.
type OverpassConfig interface {
	GetOverpassURL() string
	GetUserAgent() string
	GetUpstreamTimeout() time.Duration
	GetDefaultPOIRadius() int
}

// HistoryConfig provides settings for the search history store.
type HistoryConfig interface {
	GetHistoryDatabaseURL() string
	IsHistoryPostgres() bool
}

// CacheConfig covers the Redis-backed geocode cache.
type CacheConfig interface {
	GetRedisURL() string
	GetGeocodeCacheTTL() time.Duration
	IsGeocodeCacheEnabled() bool
}

// MapConfig provides settings for rendered map documents.
type MapConfig interface {
	GetMapOutputDir() string
	GetMapZoom() int
	GetMapRetention() time.Duration
}

type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

type JWTConfig interface {
	GetJWTAccessSecret() string
	IsAuthEnabled() bool
}

type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketMaps() string
	IsMinIOEnabled() bool
}

// SchedulerConfig provides settings for background map render jobs.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// KafkaConfig is enabled only when both broker and topic are set.
type KafkaConfig interface {
	GetKafkaBroker() string
	GetKafkaTopic() string
	IsKafkaEnabled() bool
}

// Config satisfies every interface in this package.
type Config struct {
	Env                string
	HTTPAddr           string
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	JWTAccessSecret    string
	NominatimURL       string
	NominatimRate      float64
	OverpassURL        string
	UserAgent          string
	UpstreamTimeout    time.Duration
	DefaultPOIRadius   int
	HistoryDatabaseURL string
	RedisURL           string
	RedisTLSInsecure   bool
	GeocodeCacheTTL    time.Duration
	MapOutputDir       string
	MapZoom            int
	MapRetention       time.Duration
	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinioBucketMaps    string
	AsynqQueueName     string
	AsynqConcurrency   int
	KafkaBroker        string
	KafkaTopic         string
}

func (c *Config) GetNominatimURL() string            { return c.NominatimURL }
func (c *Config) GetUserAgent() string               { return c.UserAgent }
func (c *Config) GetUpstreamTimeout() time.Duration  { return c.UpstreamTimeout }
func (c *Config) GetNominatimRatePerSecond() float64 { return c.NominatimRate }

func (c *Config) GetOverpassURL() string   { return c.OverpassURL }
func (c *Config) GetDefaultPOIRadius() int { return c.DefaultPOIRadius }

func (c *Config) GetHistoryDatabaseURL() string { return c.HistoryDatabaseURL }

// IsHistoryPostgres reports whether the history DSN is a postgres URL rather
// than a SQLite path.
func (c *Config) IsHistoryPostgres() bool {
	scheme, _, ok := strings.Cut(strings.ToLower(c.HistoryDatabaseURL), "://")
	return ok && (scheme == "postgres" || scheme == "postgresql")
}

func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetGeocodeCacheTTL() time.Duration { return c.GeocodeCacheTTL }
func (c *Config) IsGeocodeCacheEnabled() bool {
	return c.RedisURL != "" && c.GeocodeCacheTTL > 0
}

func (c *Config) GetMapOutputDir() string { return c.MapOutputDir }
func (c *Config) GetMapZoom() int         { return c.MapZoom }
func (c *Config) GetMapRetention() time.Duration { return c.MapRetention }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }
func (c *Config) IsAuthEnabled() bool        { return c.JWTAccessSecret != "" }

func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketMaps() string { return c.MinioBucketMaps }
func (c *Config) IsMinIOEnabled() bool       { return c.MinIOEndpoint != "" }

func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

func (c *Config) GetKafkaBroker() string { return c.KafkaBroker }
func (c *Config) GetKafkaTopic() string  { return c.KafkaTopic }
func (c *Config) IsKafkaEnabled() bool {
	return c.KafkaBroker != "" && c.KafkaTopic != ""
}
