package add

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
)

// Registry is the task collection new tasks are added to.
type Registry interface {
	Add(ctx context.Context, text string) (model.Task, error)
}

// ServiceConfig is the configuration for the add service.
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

// Service adds tasks.
type Service struct {
	registry Registry
	logger   log.Logger
}

// NewService creates a new add service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		registry: cfg.Registry,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the add request parameters.
type Request struct {
	// Text is the task text, it's trimmed and must not be empty.
	Text string
}

// Response is the add result.
type Response struct {
	Task model.Task
	// Warning is set when the task was added but could not be persisted.
	Warning error
}

// Run adds a new task.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	task, err := s.registry.Add(ctx, req.Text)
	if err != nil {
		if errors.Is(err, model.ErrStorageWrite) {
			s.logger.Warningf("task %d added but not persisted: %s", task.ID, err)
			return &Response{Task: task, Warning: err}, nil
		}
		return nil, fmt.Errorf("could not add task: %w", err)
	}

	s.logger.Infof("added task %d", task.ID)
	return &Response{Task: task}, nil
}
