package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/club-rank-service/internal/config"
	"github.com/preston-bernstein/club-rank-service/internal/metrics"
	"github.com/preston-bernstein/club-rank-service/internal/store"
)

// storeFactory opens the configured backend and wraps it with metrics and read retries.
type storeFactory struct {
	logger     *slog.Logger
	recorder   *metrics.Recorder
	openSQLite func(path string) (store.Store, error)
	openMongo  func(ctx context.Context, uri, database string) (store.Store, error)
}

func newStoreFactory(logger *slog.Logger, recorder *metrics.Recorder) storeFactory {
	return storeFactory{
		logger:   logger,
		recorder: recorder,
		openSQLite: func(path string) (store.Store, error) {
			return store.NewSQLiteStore(path)
		},
		openMongo: func(ctx context.Context, uri, database string) (store.Store, error) {
			return store.NewMongoStore(ctx, uri, database)
		},
	}
}

func (f storeFactory) build(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	backend := normalizeBackend(cfg.Backend)

	var (
		inner store.Store
		err   error
	)
	switch backend {
	case store.BackendMemory:
		inner = store.NewMemoryStore()
	case store.BackendSQLite:
		inner, err = f.openSQLite(cfg.SQLitePath)
	case store.BackendMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGO_URI is required for the mongo backend")
		}
		inner, err = f.openMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}

	if f.logger != nil {
		f.logger.Info("store opened", slog.String("backend", backend))
	}
	return store.NewRetryingStore(inner, backend, f.logger, f.recorder, cfg.RetryAttempts), nil
}

func normalizeBackend(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", store.BackendMemory, "mem":
		return store.BackendMemory
	case store.BackendSQLite, "sqlite3":
		return store.BackendSQLite
	case store.BackendMongo, "mongodb":
		return store.BackendMongo
	default:
		return strings.ToLower(strings.TrimSpace(name))
	}
}
