package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration for the academy backend.
type Config struct {
	HTTPPort       string
	JWTSecret      []byte
	AllowedOrigins []string
	Database       DatabaseConfig
	Redis          RedisConfig
	Anthropic      AnthropicConfig
	UsageQueue     UsageQueueConfig
	RateLimit      RateLimitConfig
	AttemptLog     AttemptLogConfig
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds Redis connection settings. An empty address means Redis
// is unavailable: the usage queue runs in-memory, spend tracking and rate
// limiting degrade to no-ops.
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AnthropicConfig holds upstream provider credentials.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
}

// UsageQueueConfig sizes the async usage-record pipeline.
type UsageQueueConfig struct {
	BatchSize    int
	BatchTimeout time.Duration
}

// RateLimitConfig holds per-user request limits for the gateway.
type RateLimitConfig struct {
	RequestsPerMinute int // 0 disables limiting
}

// AttemptLogConfig configures the rotating attempt log.
type AttemptLogConfig struct {
	FilePathTemplate string // e.g. "logs/attempts-%s.jsonl"; empty disables
	MaxSize          int64
	MaxFiles         int
	BufferSize       int
	FlushInterval    time.Duration
}

// Load reads configuration from the environment. DATABASE_URL is the only
// hard requirement; everything else has a workable default.
func Load() (*Config, error) {
	dbURL := getEnvString("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		HTTPPort:       getEnvString("HTTP_PORT", "8080"),
		JWTSecret:      []byte(getEnvString("JWT_SECRET", "")),
		AllowedOrigins: splitCSV(getEnvString("ALLOWED_ORIGINS", "*")),
		Database: DatabaseConfig{
			URL:             dbURL,
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Redis: RedisConfig{
			Address:      getEnvString("REDIS_ADDR", ""),
			Password:     getEnvString("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Anthropic: AnthropicConfig{
			APIKey:  getEnvString("ANTHROPIC_API_KEY", ""),
			BaseURL: getEnvString("ANTHROPIC_BASE_URL", ""),
		},
		UsageQueue: UsageQueueConfig{
			BatchSize:    getEnvInt("USAGE_QUEUE_BATCH_SIZE", 100),
			BatchTimeout: getEnvDuration("USAGE_QUEUE_BATCH_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 0),
		},
		AttemptLog: AttemptLogConfig{
			FilePathTemplate: getEnvString("ATTEMPT_LOG_TEMPLATE", ""),
			MaxSize:          getEnvInt64("ATTEMPT_LOG_MAX_SIZE", 64*1024*1024),
			MaxFiles:         getEnvInt("ATTEMPT_LOG_MAX_FILES", 10),
			BufferSize:       getEnvInt("ATTEMPT_LOG_BUFFER_SIZE", 1024),
			FlushInterval:    getEnvDuration("ATTEMPT_LOG_FLUSH_INTERVAL", 5*time.Second),
		},
	}

	return cfg, nil
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvInt64(key string, defaultValue int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
