package lib

import (
	"context"
	"fmt"

	"github.com/slok/todo/internal/app/add"
	"github.com/slok/todo/internal/app/clearall"
	"github.com/slok/todo/internal/app/list"
	"github.com/slok/todo/internal/app/remove"
	"github.com/slok/todo/internal/app/toggle"
)

// AddTask adds a new task at the end of the list.
//
// Empty text (after trimming) returns [ErrNotValid].
func (c *Client) AddTask(ctx context.Context, text string) (*Task, error) {
	svc, err := add.NewService(add.ServiceConfig{
		Registry: c.registry,
		Logger:   c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, add.Request{Text: text})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalTask(resp.Task)
	return &result, mapError(resp.Warning)
}

// ToggleTask flips the completion of a task.
//
// Returns [ErrNotFound] if there is no task with the id.
func (c *Client) ToggleTask(ctx context.Context, id int64) (*Task, error) {
	svc, err := toggle.NewService(toggle.ServiceConfig{
		Registry: c.registry,
		Logger:   c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, toggle.Request{ID: id})
	if err != nil {
		return nil, mapError(err)
	}
	if !resp.Found {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	result := fromInternalTask(resp.Task)
	return &result, mapError(resp.Warning)
}

// RemoveTask removes a task.
//
// Returns [ErrNotFound] if there is no task with the id.
func (c *Client) RemoveTask(ctx context.Context, id int64) (*Task, error) {
	svc, err := remove.NewService(remove.ServiceConfig{
		Registry: c.registry,
		Logger:   c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, remove.Request{ID: id})
	if err != nil {
		return nil, mapError(err)
	}
	if !resp.Found {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	result := fromInternalTask(resp.Task)
	return &result, mapError(resp.Warning)
}

// ClearTasks removes all the tasks and returns how many were removed. Ids of
// removed tasks are never reused.
func (c *Client) ClearTasks(ctx context.Context) (int, error) {
	svc, err := clearall.NewService(clearall.ServiceConfig{
		Registry: c.registry,
		Logger:   c.logger,
	})
	if err != nil {
		return 0, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx)
	if err != nil {
		return 0, mapError(err)
	}

	return resp.Cleared, mapError(resp.Warning)
}

// ListTasks returns the tasks in display order.
// Pass nil opts to list all of them.
func (c *Client) ListTasks(ctx context.Context, opts *ListTasksOpts) ([]Task, error) {
	svc, err := list.NewService(list.ServiceConfig{
		Registry: c.registry,
		Logger:   c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	req := list.Request{}
	if opts != nil {
		req.Status = list.Status(opts.Status)
		req.Filter = opts.Filter
	}

	resp, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalTaskList(resp.Tasks), nil
}

// Stats returns the task counts.
func (c *Client) Stats(ctx context.Context) Stats {
	return fromInternalStats(c.registry.Stats())
}
