package lib

import (
	"context"
	"fmt"
	"path/filepath"

	"k8s.io/client-go/util/homedir"

	"github.com/slok/todo/internal/codec"
	"github.com/slok/todo/internal/conventions"
	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/reconcile"
	"github.com/slok/todo/internal/registry"
	"github.com/slok/todo/internal/storage"
	"github.com/slok/todo/internal/storage/memory"
	"github.com/slok/todo/internal/storage/sqlite"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. At minimum, an empty
// Config{} will use ~/.todo/todo.db for storage.
type Config struct {
	// Storage selects where the tasks are stored.
	// Default: [StorageSQLite].
	Storage StorageType

	// DBPath is the SQLite database path, only used with [StorageSQLite].
	// Default: ~/.todo/todo.db.
	DBPath string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Storage == "" {
		c.Storage = StorageSQLite
	}

	switch c.Storage {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unsupported storage type: %s: %w", c.Storage, ErrNotValid)
	}

	if c.DBPath == "" {
		c.DBPath = conventions.DBPath(filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir))
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point for managing tasks programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	registry    *registry.Registry
	importer    *reconcile.Reconciler
	logger      log.Logger
	loadWarning error
	closeFn     func() error
}

// New creates a new SDK client and loads the stored tasks.
//
// Stored data that can't be read doesn't fail the client creation, the client
// starts with an empty list and [Client.LoadWarning] returns the reason.
//
// The caller must call [Client.Close] when done to release the database
// connection. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, closeFn, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c, err := codec.NewCodec(codec.CodecConfig{
		Store:  store,
		Logger: cfg.Logger,
	})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("could not create codec: %w", err)
	}

	reg, err := registry.NewRegistry(registry.RegistryConfig{
		Persister: c,
		Logger:    cfg.Logger,
	})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("could not create registry: %w", err)
	}

	rec, err := reconcile.NewReconciler(reconcile.ReconcilerConfig{
		Registry: reg,
		Logger:   cfg.Logger,
	})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("could not create reconciler: %w", err)
	}

	client := &Client{
		registry: reg,
		importer: rec,
		logger:   cfg.Logger,
		closeFn:  closeFn,
	}

	if _, err := reg.Load(ctx); err != nil {
		if !model.IsWarning(err) {
			_ = closeFn()
			return nil, mapError(err)
		}
		cfg.Logger.Warningf("Stored tasks loaded with problems: %s", err)
		client.loadWarning = mapError(err)
	}

	return client, nil
}

func newStore(ctx context.Context, cfg Config) (storage.SlotStore, func() error, error) {
	if cfg.Storage == StorageMemory {
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create repository: %w", err)
		}
		return repo, func() error { return nil }, nil
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create repository: %w", err)
	}

	return repo, repo.Close, nil
}

// LoadWarning returns the problem found loading the stored tasks, if any.
func (c *Client) LoadWarning() error {
	return c.loadWarning
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}
