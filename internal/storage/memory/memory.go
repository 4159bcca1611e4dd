package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
)

// ErrQuotaExceeded is returned when a write would go over the configured quota.
var ErrQuotaExceeded = errors.New("quota exceeded")

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	// MaxBytes is the maximum number of bytes all the slots can hold, 0 means no limit.
	MaxBytes int
	Logger   log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.MaxBytes < 0 {
		return fmt.Errorf("max bytes can't be negative")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.SlotStore.
type Repository struct {
	slots    map[string][]byte
	maxBytes int
	mu       sync.RWMutex
	logger   log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		slots:    make(map[string][]byte),
		maxBytes: cfg.MaxBytes,
		logger:   cfg.Logger,
	}, nil
}

// GetSlot retrieves the data of a slot.
func (r *Repository) GetSlot(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.slots[key]
	if !ok {
		return nil, fmt.Errorf("slot %s: %w", key, model.ErrNotFound)
	}

	// Return a copy
	return append([]byte(nil), data...), nil
}

// PutSlot creates or replaces the data of a slot.
func (r *Repository) PutSlot(ctx context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxBytes > 0 {
		used := len(data)
		for k, v := range r.slots {
			if k != key {
				used += len(v)
			}
		}
		if used > r.maxBytes {
			return fmt.Errorf("slot %s needs %d bytes of %d: %w", key, used, r.maxBytes, ErrQuotaExceeded)
		}
	}

	r.slots[key] = append([]byte(nil), data...)
	r.logger.Debugf("Stored slot in repository: %s (%d bytes)", key, len(data))

	return nil
}

// Keys returns the keys of all the stored slots.
func (r *Repository) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.slots))
	for k := range r.slots {
		keys = append(keys, k)
	}

	return keys
}
