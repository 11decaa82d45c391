package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr     string
	LogLevel string

	// SecretParam is the key under which the signing secret lives in the
	// secret store. SecretFallback is a development-only static secret used
	// when no store is configured.
	SecretParam    string
	SecretFallback string
	SecretCacheTTL time.Duration

	// AggregationPeriod is the trailing window each summary covers.
	// AggregationInterval is how often the scheduler fires. They are
	// configured separately so a weekly window can be recomputed daily.
	AggregationPeriod   time.Duration
	AggregationInterval time.Duration
	SummaryTopN         int

	PostgresDSN string
	Redis       RedisConfig
}

// RedisConfig holds connection settings for the Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:                envOr("EVENTGATE_ADDR", ":8080"),
		LogLevel:            envOr("LOG_LEVEL", "info"),
		SecretParam:         envOr("JWT_SECRET_PARAM", "eventgate/jwt-secret"),
		SecretFallback:      os.Getenv("JWT_SECRET"),
		SecretCacheTTL:      envDuration("JWT_SECRET_CACHE_TTL", 5*time.Minute),
		AggregationPeriod:   envDuration("AGGREGATION_PERIOD", 7*24*time.Hour),
		AggregationInterval: envDuration("AGGREGATION_INTERVAL", 7*24*time.Hour),
		SummaryTopN:         envInt("SUMMARY_TOP_N", 10),
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
