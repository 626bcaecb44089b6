package scheduler

import (
	"crypto/tls"
	"errors"

	"geolocation_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const defaultQueue = "default"

var errNoRedis = errors.New("redis url not configured")

// connection is what both the enqueuing client and the worker need from the
// scheduler config.
type connection struct {
	redis asynq.RedisClientOpt
	queue string
}

func connect(cfg config.SchedulerConfig) (connection, error) {
	if cfg.GetRedisURL() == "" {
		return connection{}, errNoRedis
	}

	opt, err := parseRedisURL(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return connection{}, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = defaultQueue
	}
	return connection{redis: opt, queue: queue}, nil
}

// parseRedisURL accepts redis:// and rediss:// URLs. insecure disables
// certificate checks and forces TLS on plain URLs too.
func parseRedisURL(raw string, insecure bool) (asynq.RedisClientOpt, error) {
	parsed, err := redis.ParseURL(raw)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	tlsConfig := parsed.TLSConfig
	switch {
	case tlsConfig != nil && insecure:
		tlsConfig = tlsConfig.Clone()
		tlsConfig.InsecureSkipVerify = true
	case tlsConfig == nil && insecure:
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      parsed.Addr,
		Password:  parsed.Password,
		DB:        parsed.DB,
		TLSConfig: tlsConfig,
	}, nil
}
