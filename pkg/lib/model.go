package lib

import (
	"errors"

	"github.com/slok/todo/internal/app/list"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/reconcile"
)

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned on invalid input.
	ErrNotValid = errors.New("not valid")
	// ErrImportFormat is returned when import data is not a list of tasks.
	ErrImportFormat = errors.New("import format error")
	// ErrImportEmpty is returned when import data has no valid tasks.
	ErrImportEmpty = errors.New("import has no valid tasks")
	// ErrStorageWrite is returned when a change could not be saved.
	ErrStorageWrite = errors.New("storage write error")
	// ErrStorageCorrupt is returned when the stored tasks could not be read and the
	// client started with an empty list.
	ErrStorageCorrupt = errors.New("storage corrupt")
)

// StorageType identifies where the tasks are stored.
type StorageType string

const (
	// StorageSQLite stores the tasks on a SQLite database file.
	StorageSQLite StorageType = "sqlite"
	// StorageMemory keeps the tasks in memory (no persistence across clients).
	StorageMemory StorageType = "memory"
)

// Task is a single to-do item.
type Task struct {
	ID        int64
	Text      string
	Completed bool
	// CreatedAt is the creation timestamp in ISO-8601 format, empty for imported
	// tasks that didn't have one.
	CreatedAt string
}

// Stats are the task counts.
type Stats struct {
	Total     int
	Remaining int
	Completed int
}

// Status filters tasks by completion.
type Status string

const (
	StatusAll       Status = Status(list.StatusAll)
	StatusActive    Status = Status(list.StatusActive)
	StatusCompleted Status = Status(list.StatusCompleted)
)

// ListTasksOpts are the options for listing tasks.
type ListTasksOpts struct {
	// Status filters by completion, all by default.
	Status Status
	// Filter is a boolean expression over `id`, `text`, `completed` and `createdAt`.
	Filter string
}

// Format is the import and export encoding.
type Format string

const (
	FormatJSON Format = Format(reconcile.FormatJSON)
	FormatYAML Format = Format(reconcile.FormatYAML)
)

// Strategy is how imported tasks are applied.
type Strategy string

const (
	// StrategyReplace discards the current tasks.
	StrategyReplace Strategy = Strategy(reconcile.StrategyReplace)
	// StrategyMerge appends the imported tasks after the current ones with new ids.
	StrategyMerge Strategy = Strategy(reconcile.StrategyMerge)
)

// ImportResult is the outcome of an import.
type ImportResult struct {
	Imported int
	Skipped  int
}

func fromInternalTask(t model.Task) Task {
	return Task{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}

func fromInternalTaskList(ts []model.Task) []Task {
	result := make([]Task, len(ts))
	for i, t := range ts {
		result[i] = fromInternalTask(t)
	}
	return result
}

func fromInternalStats(s model.TaskStats) Stats {
	return Stats{Total: s.Total, Remaining: s.Remaining, Completed: s.Completed}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	case errors.Is(err, model.ErrImportFormat):
		return joinErrors(err, ErrImportFormat)
	case errors.Is(err, model.ErrImportEmpty):
		return joinErrors(err, ErrImportEmpty)
	case errors.Is(err, model.ErrStorageWrite):
		return joinErrors(err, ErrStorageWrite)
	case errors.Is(err, model.ErrStorageCorrupt):
		return joinErrors(err, ErrStorageCorrupt)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
