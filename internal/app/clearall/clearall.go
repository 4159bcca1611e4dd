package clearall

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
)

// Registry is the task collection to clear.
type Registry interface {
	ClearAll(ctx context.Context) (int, error)
}

// ServiceConfig is the configuration for the clear service.
type ServiceConfig struct {
	Registry Registry
	Logger   log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Registry == nil {
		return fmt.Errorf("registry is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service removes all the tasks.
type Service struct {
	registry Registry
	logger   log.Logger
}

// NewService creates a new clear service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		registry: cfg.Registry,
		logger:   cfg.Logger,
	}, nil
}

// Response is the clear result.
type Response struct {
	Cleared int
	Warning error
}

// Run removes all the tasks. Task ids keep growing after a clear.
func (s *Service) Run(ctx context.Context) (*Response, error) {
	n, err := s.registry.ClearAll(ctx)
	if err != nil {
		if errors.Is(err, model.ErrStorageWrite) {
			s.logger.Warningf("tasks cleared but not persisted: %s", err)
			return &Response{Cleared: n, Warning: err}, nil
		}
		return nil, fmt.Errorf("could not clear tasks: %w", err)
	}

	s.logger.Infof("cleared %d tasks", n)
	return &Response{Cleared: n}, nil
}
