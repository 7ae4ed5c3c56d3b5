package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config selects the Redis server, logical database and key that hold the
// catalog.
type Config struct {
	Addr    string
	DB      int
	Key     string
	Timeout time.Duration
}

// Open dials Redis and returns a CharacterStore bound to cfg.Key. The server
// must answer a ping within cfg.Timeout; otherwise the client is released and
// the error returned.
func Open(ctx context.Context, cfg Config) (*CharacterStore, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", cfg.Addr, err)
	}

	return NewCharacterStore(client, cfg.Key), nil
}
