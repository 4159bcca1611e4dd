package importtasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/reconcile"
)

// Importer imports task files.
type Importer interface {
	ImportFile(ctx context.Context, fsys fs.FS, path string, strategy reconcile.Strategy) (reconcile.Result, error)
}

// ServiceConfig is the configuration for the import service.
type ServiceConfig struct {
	Importer Importer
	Logger   log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Importer == nil {
		return fmt.Errorf("importer is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service imports task files from the local filesystem.
type Service struct {
	importer Importer
	logger   log.Logger
}

// NewService creates a new import service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		importer: cfg.Importer,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the import request parameters.
type Request struct {
	// Path is the file to import, `.yaml` and `.yml` files are read as YAML and the rest as JSON.
	Path string
	// Strategy defaults to replace.
	Strategy reconcile.Strategy
}

// Response is the import result.
type Response struct {
	Result  reconcile.Result
	Warning error
}

// Run imports the tasks of a file.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("import file is required: %w", model.ErrNotValid)
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = reconcile.StrategyReplace
	}

	path, err := filepath.Abs(req.Path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve import file path: %w", err)
	}

	s.logger.Debugf("importing %s with %s strategy", path, strategy)
	res, err := s.importer.ImportFile(ctx, os.DirFS(filepath.Dir(path)), filepath.Base(path), strategy)
	if err != nil {
		if errors.Is(err, model.ErrStorageWrite) {
			s.logger.Warningf("imported tasks not persisted: %s", err)
			return &Response{Result: res, Warning: err}, nil
		}
		return nil, fmt.Errorf("could not import tasks: %w", err)
	}

	return &Response{Result: res}, nil
}
