package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config selects the MongoDB deployment and database that hold the catalog.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Open connects to MongoDB and returns a CharacterStore on cfg.Database. The
// primary must answer a ping within cfg.Timeout; otherwise the client is
// disconnected and the error returned.
func Open(ctx context.Context, cfg Config) (*CharacterStore, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("catalog-api").
		SetServerSelectionTimeout(cfg.Timeout)
	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(dialCtx)
		return nil, fmt.Errorf("mongo %s unreachable: %w", cfg.Database, err)
	}

	return NewCharacterStore(client.Database(cfg.Database)), nil
}
