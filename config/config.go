package config

import (
	"errors"
	"time"

	"notevault/utils"
)

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URI             string
	DatabaseName    string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	RetryWrites     bool
}

type AuthConfig struct {
	JWTSecretKey string
	JWTAlgorithm string
	// TokenTTL is the absolute lifetime of an access token. Expired
	// tokens require a fresh login; there is no refresh flow.
	TokenTTL time.Duration
}

type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
}

// Load assembles the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            utils.GetEnvAsString("PORT", "8000"),
			ShutdownTimeout: utils.GetEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URI:             utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
			DatabaseName:    utils.GetEnvAsString("MONGO_DB", "notevault"),
			MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
			MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
			MaxConnIdleTime: time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second,
			RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
		},
		Auth: AuthConfig{
			JWTSecretKey: utils.GetEnvAsString("JWT_SECRET_KEY", ""),
			JWTAlgorithm: utils.GetEnvAsString("JWT_ALGORITHM", "HS256"),
			TokenTTL:     time.Duration(utils.GetEnvAsInt64("JWT_EXPIRATION_TIME", 900)) * time.Second,
		},
		Cache: CacheConfig{
			RedisURL: utils.GetEnvAsString("REDIS_URL", ""),
			TTL:      utils.GetEnvAsDuration("NOTE_CACHE_TTL", 5*time.Minute),
		},
	}

	if cfg.Auth.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY is not set")
	}

	return cfg, nil
}
