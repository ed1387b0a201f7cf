package backend

import (
	"context"
	"fmt"

	"expensetracker/internal/cache"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/memory"
	"expensetracker/internal/storage/postgres"
	"expensetracker/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
	caches *cache.Manager
}

// NewFactory creates a new backend factory. When caches is non-nil every
// read cache it builds is registered there for periodic cleanup.
func NewFactory(logger *log.Logger, caches *cache.Manager) *DefaultFactory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
		caches: caches,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *Result
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(ctx, config)
	case PostgresBackend:
		res, err = f.createPostgresBackend(ctx, config)
	case MemoryBackend:
		res, err = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheSize > 0 {
		cached := storage.NewCached(res.Storage, config.CacheSize, config.CacheTTL)
		if f.caches != nil {
			f.caches.Register(cached)
		}
		res.Storage = cached
		f.logger.Info("Read cache enabled", "size", config.CacheSize, "ttl", config.CacheTTL.String())
	}
	return res, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*Result, error) {
	store, err := sqlite.Open(ctx, config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite storage: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{Storage: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*Result, error) {
	store, err := postgres.Connect(ctx, config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres storage: %w", err)
	}

	f.logger.Info("Initialized Postgres backend")

	return &Result{Storage: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	if config.SeedDirectory == "" {
		f.logger.Info("Initialized memory backend")
		return &Result{Storage: memory.New()}, nil
	}

	store, err := memory.NewFromDir(config.SeedDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory storage: %w", err)
	}

	f.logger.Info("Initialized memory backend", "seed_directory", config.SeedDirectory, "keys", store.Len())

	return &Result{Storage: store}, nil
}
