package remove

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
)

// Registry is the task collection tasks are removed from.
type Registry interface {
	Delete(ctx context.Context, id int64) (model.Task, bool, error)
}

// ServiceConfig is the configuration for the remove service.
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

// Service removes a task.
type Service struct {
	registry Registry
	logger   log.Logger
}

// NewService creates a new remove service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		registry: cfg.Registry,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the remove request parameters.
type Request struct {
	ID int64
}

// Response is the remove result.
type Response struct {
	// Task is the removed task.
	Task    model.Task
	Found   bool
	Warning error
}

// Run removes a task by id. Removing an unknown id is not an error, the response
// is marked as not found.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	s.logger.Debugf("removing task: %d", req.ID)

	task, found, err := s.registry.Delete(ctx, req.ID)
	if err != nil {
		if errors.Is(err, model.ErrStorageWrite) {
			s.logger.Warningf("task %d removed but not persisted: %s", req.ID, err)
			return &Response{Task: task, Found: found, Warning: err}, nil
		}
		return nil, fmt.Errorf("could not remove task: %w", err)
	}

	if found {
		s.logger.Infof("removed task: %d", task.ID)
	}

	return &Response{Task: task, Found: found}, nil
}
