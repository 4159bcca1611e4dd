package toggle

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
)

// Registry is the task collection with the tasks to toggle.
type Registry interface {
	Toggle(ctx context.Context, id int64) (model.Task, bool, error)
}

// ServiceConfig is the configuration for the toggle service.
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

// Service flips the completion state of tasks.
type Service struct {
	registry Registry
	logger   log.Logger
}

// NewService creates a new toggle service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		registry: cfg.Registry,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the toggle request parameters.
type Request struct {
	ID int64
}

// Response is the toggle result.
type Response struct {
	Task model.Task
	// Found is false when no task has the requested id, nothing changes in that case.
	Found   bool
	Warning error
}

// Run toggles a task completion state.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	task, found, err := s.registry.Toggle(ctx, req.ID)
	if err != nil {
		if errors.Is(err, model.ErrStorageWrite) {
			s.logger.Warningf("task %d toggled but not persisted: %s", req.ID, err)
			return &Response{Task: task, Found: found, Warning: err}, nil
		}
		return nil, fmt.Errorf("could not toggle task: %w", err)
	}

	if !found {
		s.logger.Debugf("task %d not found", req.ID)
	}

	return &Response{Task: task, Found: found}, nil
}
