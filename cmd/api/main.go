// @title        Character Catalog API
// @version      1.0
// @description  CRUD API over a catalog of comic-book characters.
// @host         localhost:3000
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/charactercatalog/catalog-api/internal/api"
	"github.com/charactercatalog/catalog-api/internal/api/metrics"
	"github.com/charactercatalog/catalog-api/internal/core/ports"
	"github.com/charactercatalog/catalog-api/internal/core/service"
	"github.com/charactercatalog/catalog-api/internal/infrastructure/config"
	"github.com/charactercatalog/catalog-api/internal/infrastructure/db/jsonfile"
	mongodb "github.com/charactercatalog/catalog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/charactercatalog/catalog-api/internal/infrastructure/db/redis"
	"github.com/charactercatalog/catalog-api/internal/infrastructure/queue"
	"github.com/charactercatalog/catalog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catalog-api",
	})

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("open store")
	}
	defer closeStore()

	instrumented := metrics.InstrumentStore(cfg.StoreBackend, store)

	// Not tied to the signal context; drain stops it after the server.
	var (
		q    *queue.WriteQueue
		opts []service.Option
	)
	if cfg.WriteQueue.Enabled {
		q = queue.NewWriteQueue(cfg.WriteQueue.Buffer, log)
		q.Start(context.Background())
		opts = append(opts, service.WithWriteSerializer(q))
	}
	characters := service.NewCharacterService(instrumented, log, opts...)

	e := api.NewRouter(api.RouterDeps{
		Characters:   characters,
		Readiness:    map[string]ports.Pinger{"store": instrumented},
		AllowOrigins: cfg.CORSAllowOrigins,
		Logger:       log,
	})

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("backend", cfg.StoreBackend).
			Bool("write_queue", cfg.WriteQueue.Enabled).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := drain(shutdownCtx, e, q); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// drain stops the server and only then the write queue, so requests that
// are still running when the signal arrives can complete their writes.
func drain(ctx context.Context, srv shutdowner, q *queue.WriteQueue) error {
	err := srv.Shutdown(ctx)
	if q != nil {
		q.Stop()
	}
	return err
}

// storeWithPing is what every backend provides.
type storeWithPing interface {
	ports.CharacterStore
	ports.Pinger
}

// openStore builds the backend named by cfg.StoreBackend. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config) (storeWithPing, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		store, err := redisdb.Open(ctx, redisdb.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
			Key:  cfg.Redis.Key,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case config.BackendMongo:
		store, err := mongodb.Open(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = store.Close(closeCtx)
		}, nil

	default:
		return jsonfile.NewCharacterStore(cfg.DataFile), func() {}, nil
	}
}
