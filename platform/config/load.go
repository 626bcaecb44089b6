package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads a .env file when present, then the process environment.
// Malformed numbers and durations are reported together.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var env envReader
	origins := env.list("CORS_ORIGINS", "http://localhost:4200")

	cfg := &Config{
		Env:                env.str("APP_ENV", "development"),
		HTTPAddr:           env.str("HTTP_ADDR", ":8080"),
		CORSAllowAll:       env.flag("CORS_ALLOW_ALL", false) || slices.Contains(origins, "*"),
		CORSOrigins:        origins,
		CORSAllowCreds:     env.flag("CORS_ALLOW_CREDENTIALS", false),
		JWTAccessSecret:    env.str("JWT_ACCESS_SECRET", ""),
		NominatimURL:       strings.TrimRight(env.str("NOMINATIM_URL", "https://nominatim.openstreetmap.org"), "/"),
		NominatimRate:      env.number("NOMINATIM_RATE_PER_SECOND", 1),
		OverpassURL:        env.str("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		UserAgent:          env.str("USER_AGENT", "geolocation-backend/1.0"),
		UpstreamTimeout:    env.duration("UPSTREAM_TIMEOUT", 10*time.Second),
		DefaultPOIRadius:   env.integer("POI_DEFAULT_RADIUS", 1000),
		HistoryDatabaseURL: env.str("HISTORY_DATABASE_URL", "geolocation_history.db"),
		RedisURL:           env.str("REDIS_URL", ""),
		RedisTLSInsecure:   env.flag("REDIS_TLS_INSECURE", false),
		GeocodeCacheTTL:    env.duration("GEOCODE_CACHE_TTL", 24*time.Hour),
		MapOutputDir:       env.str("MAP_OUTPUT_DIR", "maps"),
		MapZoom:            env.integer("MAP_ZOOM", 15),
		MapRetention:       env.duration("MAP_RETENTION", 24*time.Hour),
		MinIOEndpoint:      env.str("MINIO_ENDPOINT", ""),
		MinIOAccessKey:     env.str("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:     env.str("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:        env.flag("MINIO_USE_SSL", false),
		MinioBucketMaps:    env.str("MINIO_BUCKET_MAPS", "rendered-maps"),
		AsynqQueueName:     env.str("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:   env.integer("ASYNQ_CONCURRENCY", 4),
		KafkaBroker:        env.str("KAFKA_BROKER", ""),
		KafkaTopic:         env.str("KAFKA_TOPIC", "geolocation.search-history"),
	}

	if err := errors.Join(append(env.errs, cfg.validate()...)...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	check(c.HistoryDatabaseURL != "", "HISTORY_DATABASE_URL is required")
	check(c.UpstreamTimeout > 0, "UPSTREAM_TIMEOUT must be a positive duration")
	check(c.NominatimRate > 0, "NOMINATIM_RATE_PER_SECOND must be positive")
	check(c.DefaultPOIRadius > 0, "POI_DEFAULT_RADIUS must be positive")
	check(c.MinIOEndpoint == "" || (c.MinIOAccessKey != "" && c.MinIOSecretKey != ""),
		"MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	check(!(c.CORSAllowAll && c.CORSAllowCreds), "CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	return errs
}

// envReader reads typed variables and remembers parse failures.
type envReader struct {
	errs []error
}

func (r *envReader) str(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func (r *envReader) raw(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *envReader) fail(key, value string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s=%q: %w", key, value, err))
}

func (r *envReader) flag(key string, fallback bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	return strings.EqualFold(v, "true") || v == "1"
}

func (r *envReader) integer(key string, fallback int) int {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
	}
	return n
}

func (r *envReader) number(key string, fallback float64) float64 {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v, err)
	}
	return f
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
	}
	return d
}

func (r *envReader) list(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(r.str(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
