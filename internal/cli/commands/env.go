package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/bdo/internal/cli/config"
	"github.com/conduit-lang/bdo/internal/decorator"
	"github.com/conduit-lang/bdo/internal/i18n"
	"github.com/conduit-lang/bdo/internal/models"
	"github.com/conduit-lang/bdo/internal/nsstorage"
	"github.com/conduit-lang/bdo/internal/storage"
)

// closer releases the stores opened for an environment.
type closer interface {
	Close() error
}

// Runtime is an environment built from configuration together with the
// stores backing it.
type Runtime struct {
	Config *config.Config
	Logger *zap.Logger
	Env    *decorator.Env
	Store  storage.Store

	closers []closer
}

// Close releases the opened stores.
func (r *Runtime) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

// OpenStore opens the document store selected by cfg.Storage.Driver.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "redis":
		return storage.NewRedisStore(&storage.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			PoolSize:  cfg.Redis.PoolSize,
			KeyPrefix: cfg.Redis.KeyPrefix + "doc:",
		}), nil
	case "sql":
		store, err := storage.OpenSQLStore(ctx, &storage.SQLConfig{
			Driver:    cfg.SQL.Driver,
			DSN:       cfg.SQL.DSN,
			TableName: cfg.SQL.Table,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", cfg.SQL.Driver, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

// OpenLocalBackend opens the namespaced storage backend selected by
// cfg.Storage.Local.
func OpenLocalBackend(cfg *config.Config) (nsstorage.Backend, error) {
	switch cfg.Storage.Local {
	case "memory":
		return nsstorage.NewMemoryBackend(), nil
	case "redis":
		backend, err := nsstorage.NewRedisBackendWithConfig(nsstorage.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Config:   nsstorage.Config{Prefix: cfg.Redis.KeyPrefix + "ns:"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown local storage: %s", cfg.Storage.Local)
	}
}

// NewRuntime opens the configured stores, builds an environment on them and
// registers the sample classes.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Config: cfg, Logger: logger, Store: store}
	if c, ok := store.(closer); ok {
		rt.closers = append(rt.closers, c)
	}

	backend, err := OpenLocalBackend(cfg)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	if c, ok := backend.(closer); ok {
		rt.closers = append(rt.closers, c)
	}

	rt.Env, err = rt.NewEnv(ctx, backend)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	logger.Debug("environment ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("local", cfg.Storage.Local),
		zap.String("database", cfg.Models.Database),
	)
	return rt, nil
}

// NewEnv builds another environment with the sample classes on the
// runtime's document store and the given namespaced storage backend. The
// configured database and every other one resolve to the document store.
func (r *Runtime) NewEnv(ctx context.Context, backend nsstorage.Backend) (*decorator.Env, error) {
	databases := storage.NewManager(r.Store)
	databases.Register(r.Config.Models.Database, r.Store)

	env := decorator.NewEnv(
		decorator.WithContext(ctx),
		decorator.WithLogger(r.Logger),
		decorator.WithTranslator(i18n.NewMemory(r.Config.Models.Language)),
		decorator.WithLocalStorage(nsstorage.New(backend, r.Logger)),
		decorator.WithDatabases(databases),
	)
	if err := models.Register(env); err != nil {
		return nil, fmt.Errorf("failed to register models: %w", err)
	}
	return env, nil
}
