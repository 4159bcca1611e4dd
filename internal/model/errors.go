package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")

	// ErrValidation is returned when user input is rejected before any mutation.
	ErrValidation = errors.New("validation error")
	// ErrStorageWrite is returned when the durable store rejects a write. The in-memory
	// state is kept when this happens.
	ErrStorageWrite = errors.New("storage write error")
	// ErrStorageCorrupt is returned when the durable store content can't be read or
	// has an unknown shape.
	ErrStorageCorrupt = errors.New("storage corrupt")
	// ErrImportFormat is returned when import content is not parseable or its top level
	// is not a list of tasks.
	ErrImportFormat = errors.New("import format error")
	// ErrImportEmpty is returned when import content is well formed but has no valid tasks.
	ErrImportEmpty = errors.New("import has no valid tasks")
)

// UserMessage returns the message that should be shown to a user for an error.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "Task text can't be empty."
	case errors.Is(err, ErrStorageWrite):
		return "Warning: changes could not be saved, they will be lost when the program exits."
	case errors.Is(err, ErrStorageCorrupt):
		return "Warning: saved tasks could not be read, starting with an empty list (a backup of the old data was kept if possible)."
	case errors.Is(err, ErrImportFormat):
		return "Invalid import file, expected a list of tasks."
	case errors.Is(err, ErrImportEmpty):
		return "No valid tasks found in the import file."
	case errors.Is(err, ErrNotFound):
		return "Task not found."
	default:
		return err.Error()
	}
}

// IsWarning returns true for errors that leave the application in a usable state
// after the operation has been applied in memory.
func IsWarning(err error) bool {
	return errors.Is(err, ErrStorageWrite) || errors.Is(err, ErrStorageCorrupt)
}
