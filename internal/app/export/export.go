package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/todo/internal/conventions"
	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/reconcile"
)

// Registry is the task collection to export.
type Registry interface {
	Tasks() []model.Task
}

// ServiceConfig is the configuration for the export service.
type ServiceConfig struct {
	Registry Registry
	Logger   log.Logger
	// TimeNow is used to name the exported files, defaults to time.Now.
	TimeNow func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Registry == nil {
		return fmt.Errorf("registry is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}

	return nil
}

// Service exports the tasks in a format that can be imported back.
type Service struct {
	registry Registry
	logger   log.Logger
	timeNow  func() time.Time
}

// NewService creates a new export service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		registry: cfg.Registry,
		logger:   cfg.Logger,
		timeNow:  cfg.TimeNow,
	}, nil
}

// Request represents the export request parameters.
type Request struct {
	// Format of the export, JSON by default.
	Format reconcile.Format
	// Dir is the directory where the export file is written. When empty no file is
	// written and only the data is returned.
	Dir string
}

// Response is the export result.
type Response struct {
	Data []byte
	// Path is the written file, empty when no directory was requested.
	Path  string
	Count int
}

// Run exports the current tasks as a bare list in display order.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	tasks := s.registry.Tasks()

	format := req.Format
	if format == "" {
		format = reconcile.FormatJSON
	}

	data, err := Encode(tasks, format)
	if err != nil {
		return nil, err
	}

	res := &Response{Data: data, Count: len(tasks)}
	if req.Dir == "" {
		return res, nil
	}

	if err := os.MkdirAll(req.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create export directory: %w", err)
	}

	res.Path = filepath.Join(req.Dir, conventions.ExportFileName(s.timeNow(), string(format)))
	if err := os.WriteFile(res.Path, data, 0o644); err != nil {
		return nil, fmt.Errorf("could not write export file: %w", err)
	}

	s.logger.Infof("exported %d tasks to %s", res.Count, res.Path)
	return res, nil
}

// Encode serializes the tasks as a pretty printed list the importer accepts.
func Encode(tasks []model.Task, format reconcile.Format) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}

	var buf bytes.Buffer
	switch format {
	case reconcile.FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tasks); err != nil {
			return nil, fmt.Errorf("could not encode JSON: %w", err)
		}
	case reconcile.FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return nil, fmt.Errorf("could not encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("could not encode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q: %w", format, model.ErrNotValid)
	}

	return buf.Bytes(), nil
}
