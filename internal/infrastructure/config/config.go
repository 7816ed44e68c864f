package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth      AuthConfig
	Bootstrap BootstrapConfig
	Model     ModelConfig
	Store     StoreConfig
	Redis     RedisConfig
	Mongo     MongoConfig
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Required outside development.
	JWTSecret string `env:"JWT_SECRET"`
	// TokenTTL is the token lifetime; short by design since there is no
	// revocation mechanism.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=30m"`
	// BcryptCost tunes password hashing. 10 keeps p99 verify latency
	// bounded; raise it when hardware allows.
	BcryptCost int `env:"BCRYPT_COST, default=10"`
}

// BootstrapConfig describes the two accounts inserted at process start,
// before any external request is served.
type BootstrapConfig struct {
	AdminUsername string `env:"BOOTSTRAP_ADMIN_USERNAME, default=admin"`
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL,    default=admin@example.com"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD, default=Admin123!"`
	UserUsername  string `env:"BOOTSTRAP_USER_USERNAME,  default=testuser"`
	UserEmail     string `env:"BOOTSTRAP_USER_EMAIL,     default=user@example.com"`
	UserPassword  string `env:"BOOTSTRAP_USER_PASSWORD,  default=User123!"`
}

type ModelConfig struct {
	Name string `env:"MODEL_NAME, default=lexicon-sst2-mini"`
}

type StoreConfig struct {
	// Backend selects the user store implementation: "memory" or "mongo".
	Backend string `env:"USER_STORE, default=memory"`
}

type RedisConfig struct {
	// Addr enables the Redis prediction cache when non-empty.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ml_api"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		if cfg.Env != "development" {
			return nil, fmt.Errorf("config: JWT_SECRET is required when ENV=%s", cfg.Env)
		}
		cfg.Auth.JWTSecret = "dev-only-insecure-secret"
	}
	return &cfg, nil
}
