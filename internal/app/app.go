// Package app assembles the glossary from configuration: record store, media
// store, optional Redis, Word Repository and Library. The HTTP server and the
// CLI share it.
package app

import (
	"context"
	"time"

	"github.com/glosario-lsc/glosario/internal/config"
	"github.com/glosario-lsc/glosario/internal/database"
	"github.com/glosario-lsc/glosario/internal/geo"
	"github.com/glosario-lsc/glosario/internal/glossary/cache"
	"github.com/glosario-lsc/glosario/internal/glossary/repository"
	"github.com/glosario-lsc/glosario/internal/glossary/service"
	"github.com/glosario-lsc/glosario/internal/library"
	"github.com/glosario-lsc/glosario/internal/storage"
	"github.com/glosario-lsc/glosario/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	mongoAttempts = 5
	mongoBackoff  = time.Second
)

// App holds the wired collaborators. Backends report which implementations
// were chosen, for readiness and startup logs.
type App struct {
	Library *library.Library
	Media   storage.MediaStore
	Cities  *geo.Resolver
	Redis   *redis.Client
	// Location bounds position requests made by contribution flows.
	Location geo.Options

	Backends Backends

	mongo *mongo.Client
	log   *zap.Logger
}

type Backends struct {
	Store string // "mongo" | "memory"
	Media string // "minio" | "memory"
	Cache bool
}

// Build connects every configured backend. A missing MONGODB_URI or
// MINIO_ENDPOINT selects the in-memory implementation; a configured backend
// that cannot be reached is an error. Redis is optional: when it is down the
// app runs without the snapshot cache.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	log = logger.OrNop(log)
	a := &App{
		log:      log,
		Cities:   geo.NewResolver(nil, cfg.Geo.CityRadiusKm),
		Location: geo.Options{Timeout: cfg.Geo.Timeout, MaximumAge: cfg.Geo.MaximumAge},
	}

	var store repository.Store
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoAttempts, mongoBackoff)
		if err != nil {
			return nil, err
		}
		a.mongo = client
		store = repository.NewMongoStore(client.Database(cfg.MongoDB.Database))
		a.Backends.Store = "mongo"
	} else {
		log.Warn("MONGODB_URI not set, words are kept in memory only")
		store = repository.NewMemoryStore()
		a.Backends.Store = "memory"
	}

	if cfg.MinIO != nil && cfg.MinIO.Endpoint != "" {
		ms, err := storage.NewMinIOStorage(cfg.MinIO)
		if err != nil {
			a.Close(context.Background())
			return nil, err
		}
		a.Media = ms
		a.Backends.Media = "minio"
	} else {
		log.Warn("MINIO_ENDPOINT not set, videos are kept in memory only")
		base := ""
		if cfg.MinIO != nil {
			base = cfg.MinIO.PublicBaseURL
		}
		a.Media = storage.NewMemoryStorage(base)
		a.Backends.Media = "memory"
	}

	opts := []service.Option{service.WithLogger(log.Named("repository"))}
	if addr := cfg.Redis.Addr(); addr != "" {
		rc := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn("failed to connect to Redis, continuing without it", zap.String("addr", addr), zap.Error(err))
			_ = rc.Close()
		} else {
			a.Redis = rc
			if cfg.Cache.SnapshotTTL > 0 {
				opts = append(opts, service.WithCache(cache.NewRedisSnapshotCache(rc, "", cfg.Cache.SnapshotTTL)))
				a.Backends.Cache = true
			}
		}
	}

	repo := service.New(store, a.Media, opts...)
	a.Library = library.New(repo, log.Named("library"), library.WithMaxAge(cfg.Cache.SnapshotMaxAge))
	return a, nil
}

// Ping checks the remote backends that are in use.
func (a *App) Ping(ctx context.Context) map[string]bool {
	deps := map[string]bool{}
	if a.mongo != nil {
		deps["mongo"] = a.mongo.Ping(ctx, nil) == nil
	}
	if ms, ok := a.Media.(*storage.MinIOStorage); ok {
		deps["minio"] = ms.Ping(ctx) == nil
	}
	if a.Redis != nil {
		deps["redis"] = a.Redis.Ping(ctx).Err() == nil
	}
	return deps
}

// Close disconnects Mongo and Redis.
func (a *App) Close(ctx context.Context) {
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.log.Warn("mongo disconnect", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}
