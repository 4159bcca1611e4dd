package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/slok/todo/internal/codec"
	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
)

// Strategy is how an imported batch is applied to the current tasks.
type Strategy string

const (
	// StrategyReplace discards the current tasks.
	StrategyReplace Strategy = "replace"
	// StrategyMerge appends the imported tasks with new ids.
	StrategyMerge Strategy = "merge"
)

// Format is the encoding of the import content.
type Format string

const (
	// FormatJSON is a JSON list of tasks.
	FormatJSON Format = "json"
	// FormatYAML is a YAML list of tasks.
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the import format based on a file extension, JSON by default.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Registry is the task collection the imports are applied to.
type Registry interface {
	ReplaceAll(ctx context.Context, tasks []model.Task) error
	MergeAppend(ctx context.Context, tasks []model.Task) ([]model.Task, error)
}

// ReconcilerConfig is the configuration for the reconciler.
type ReconcilerConfig struct {
	Registry Registry
	Logger   log.Logger
}

func (c *ReconcilerConfig) defaults() error {
	if c.Registry == nil {
		return fmt.Errorf("registry is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "reconcile.Reconciler"})
	return nil
}

// Reconciler imports external task batches into the registry.
type Reconciler struct {
	registry Registry
	logger   log.Logger
}

// NewReconciler returns a new reconciler.
func NewReconciler(cfg ReconcilerConfig) (*Reconciler, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Reconciler{
		registry: cfg.Registry,
		logger:   cfg.Logger,
	}, nil
}

// Parse decodes import content into the valid tasks it holds.
//
// The content must be a list of tasks, anything else (including the store envelope)
// fails with model.ErrImportFormat. A list without any valid task fails with
// model.ErrImportEmpty.
func Parse(data []byte, format Format) ([]model.Task, error) {
	tasks, _, err := parse(data, format)
	return tasks, err
}

func parse(data []byte, format Format) (tasks []model.Task, entriesCount int, err error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, 0, fmt.Errorf("could not parse YAML: %w: %w", err, model.ErrImportFormat)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, 0, fmt.Errorf("could not parse JSON: %w: %w", err, model.ErrImportFormat)
		}
	default:
		return nil, 0, fmt.Errorf("unknown format %q: %w", format, model.ErrNotValid)
	}

	entries, ok := raw.([]any)
	if !ok {
		return nil, 0, fmt.Errorf("content is not a list of tasks: %w", model.ErrImportFormat)
	}

	tasks = codec.FilterValid(entries)
	if len(tasks) == 0 {
		return nil, len(entries), fmt.Errorf("%d entries checked: %w", len(entries), model.ErrImportEmpty)
	}

	return tasks, len(entries), nil
}

// Result is the outcome of an import.
type Result struct {
	// Imported is the number of tasks applied to the registry.
	Imported int
	// Skipped is the number of invalid entries that were dropped.
	Skipped  int
	Strategy Strategy
}

// Import parses the content and applies its tasks to the registry with the strategy.
// Parse errors don't change the registry. A failed persist after applying the tasks is
// returned together with the result, the tasks are applied in memory.
func (r *Reconciler) Import(ctx context.Context, data []byte, format Format, strategy Strategy) (Result, error) {
	switch strategy {
	case StrategyReplace, StrategyMerge:
	default:
		return Result{}, fmt.Errorf("unknown import strategy %q: %w", strategy, model.ErrNotValid)
	}

	tasks, total, err := parse(data, format)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Imported: len(tasks),
		Skipped:  total - len(tasks),
		Strategy: strategy,
	}

	switch strategy {
	case StrategyReplace:
		err = r.registry.ReplaceAll(ctx, tasks)
	case StrategyMerge:
		_, err = r.registry.MergeAppend(ctx, tasks)
	}

	r.logger.Infof("Imported %d tasks with %s strategy (%d skipped)", res.Imported, strategy, res.Skipped)
	if err != nil {
		return res, fmt.Errorf("could not apply imported tasks: %w", err)
	}

	return res, nil
}

// ImportFile reads a file and imports it, the format is chosen by the file extension.
func (r *Reconciler) ImportFile(ctx context.Context, fsys fs.FS, path string, strategy Strategy) (Result, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Result{}, fmt.Errorf("could not read import file: %w", err)
	}

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	return r.Import(ctx, data, FormatFromPath(path), strategy)
}
