package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	StoreBackend string `env:"STORE_BACKEND, default=file"`
	DataFile     string `env:"DATA_FILE,     default=characters.json"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`

	WriteQueue WriteQueueConfig
	Mongo      MongoConfig
	Redis      RedisConfig
}

type WriteQueueConfig struct {
	Enabled bool `env:"WRITE_QUEUE_ENABLED, default=true"`
	Buffer  int  `env:"WRITE_QUEUE_BUFFER,  default=64"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=character_catalog"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
	Key  string `env:"REDIS_KEY,  default=characters"`
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l, so tests can supply a map.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch cfg.StoreBackend {
	case BackendFile, BackendRedis, BackendMongo:
	default:
		return nil, fmt.Errorf("config: unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return &cfg, nil
}
