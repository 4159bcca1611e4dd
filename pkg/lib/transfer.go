package lib

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/todo/internal/app/export"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/reconcile"
)

// Export returns the tasks as a pretty printed list in the requested format.
func (c *Client) Export(ctx context.Context, format Format) ([]byte, error) {
	svc, err := export.NewService(export.ServiceConfig{
		Registry: c.registry,
		Logger:   c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, export.Request{Format: reconcile.Format(format)})
	if err != nil {
		return nil, mapError(err)
	}

	return resp.Data, nil
}

// Import applies a list of tasks with the strategy. Invalid entries are skipped,
// and nothing changes when the data is not a list or has no valid tasks.
func (c *Client) Import(ctx context.Context, data []byte, format Format, strategy Strategy) (*ImportResult, error) {
	res, err := c.importer.Import(ctx, data, reconcile.Format(format), reconcile.Strategy(strategy))
	if err != nil && !errors.Is(err, model.ErrStorageWrite) {
		return nil, mapError(err)
	}

	return &ImportResult{Imported: res.Imported, Skipped: res.Skipped}, mapError(err)
}
