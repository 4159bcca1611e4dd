package list

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
)

// Status is the completion status filter.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Registry is the task collection to list.
type Registry interface {
	Tasks() []model.Task
}

// ServiceConfig is the configuration for the list service.
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

// Service lists tasks with optional filtering.
type Service struct {
	registry Registry
	logger   log.Logger
}

// NewService creates a new list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		registry: cfg.Registry,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the list request parameters.
type Request struct {
	// Status filters by completion, empty means all.
	Status Status
	// Filter is an optional boolean expression evaluated for every task, the
	// variables available are `id`, `text`, `completed` and `createdAt`.
	// e.g: `completed == false && text contains "milk"`.
	Filter string
}

// Response is the list result.
type Response struct {
	Tasks []model.Task
	// Stats are calculated over all the tasks, not only the listed ones.
	Stats model.TaskStats
}

// Run lists the tasks in display order.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	s.logger.Debugf("listing tasks with status %q and filter %q", req.Status, req.Filter)

	match, err := newMatcher(req)
	if err != nil {
		return nil, err
	}

	all := s.registry.Tasks()
	tasks := make([]model.Task, 0, len(all))
	for _, t := range all {
		ok, err := match(t)
		if err != nil {
			return nil, err
		}
		if ok {
			tasks = append(tasks, t)
		}
	}

	s.logger.Debugf("found %d tasks", len(tasks))
	return &Response{
		Tasks: tasks,
		Stats: model.StatsOf(all),
	}, nil
}

func newMatcher(req Request) (func(model.Task) (bool, error), error) {
	var statusOK func(model.Task) bool
	switch req.Status {
	case StatusAll, "":
		statusOK = func(model.Task) bool { return true }
	case StatusActive:
		statusOK = func(t model.Task) bool { return !t.Completed }
	case StatusCompleted:
		statusOK = func(t model.Task) bool { return t.Completed }
	default:
		return nil, fmt.Errorf("unknown status %q: %w", req.Status, model.ErrNotValid)
	}

	if strings.TrimSpace(req.Filter) == "" {
		return func(t model.Task) (bool, error) { return statusOK(t), nil }, nil
	}

	program, err := expr.Compile(req.Filter, expr.Env(filterEnv(model.Task{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w: %w", err, model.ErrNotValid)
	}

	return func(t model.Task) (bool, error) {
		if !statusOK(t) {
			return false, nil
		}
		return runFilter(program, t)
	}, nil
}

func runFilter(program *vm.Program, t model.Task) (bool, error) {
	out, err := expr.Run(program, filterEnv(t))
	if err != nil {
		return false, fmt.Errorf("could not evaluate filter on task %d: %w: %w", t.ID, err, model.ErrNotValid)
	}

	ok, _ := out.(bool)
	return ok, nil
}

func filterEnv(t model.Task) map[string]any {
	return map[string]any{
		"id":        t.ID,
		"text":      t.Text,
		"completed": t.Completed,
		"createdAt": t.CreatedAt,
	}
}
