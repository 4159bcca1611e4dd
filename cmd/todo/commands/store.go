package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/todo/internal/codec"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/registry"
	"github.com/slok/todo/internal/storage/sqlite"
)

// taskStore is the loaded task registry backed by the SQLite slot store.
type taskStore struct {
	repo     *sqlite.Repository
	registry *registry.Registry
	// lastSaved is the save time read from the stored tasks, zero when unknown.
	lastSaved time.Time
}

// openTaskStore opens the database and loads the tasks. Unreadable stored data is
// reported as a warning and the registry starts empty.
func openTaskStore(ctx context.Context, rootCmd *RootCommand) (*taskStore, error) {
	logger := rootCmd.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	c, err := codec.NewCodec(codec.CodecConfig{
		Store:  repo,
		Logger: logger,
	})
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("could not create codec: %w", err)
	}

	reg, err := registry.NewRegistry(registry.RegistryConfig{
		Persister: c,
		Logger:    logger,
	})
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("could not create registry: %w", err)
	}

	res, err := reg.Load(ctx)
	if err != nil {
		if !model.IsWarning(err) {
			_ = repo.Close()
			return nil, err
		}
		rootCmd.warn(err)
	}

	if res.Migrated {
		logger.Infof("Stored tasks upgraded to the current format")
	}
	if res.BackupKey != "" {
		logger.Warningf("Unreadable stored tasks backed up on %q slot", res.BackupKey)
	}

	return &taskStore{repo: repo, registry: reg, lastSaved: res.LastSaved}, nil
}

func (s *taskStore) Close() error {
	return s.repo.Close()
}
