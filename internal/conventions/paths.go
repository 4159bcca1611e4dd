package conventions

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	// DefaultDataDir is the default todo data directory name (relative to home).
	DefaultDataDir = ".todo"
	// DBFile is the SQLite database filename inside the data directory.
	DBFile = "todo.db"

	// ExportFilePrefix is the prefix of the exported task files.
	ExportFilePrefix = "todos"
	// ExportDateLayout is the date layout used in the exported file names.
	ExportDateLayout = "2006-01-02"
)

// DBPath returns the path of the database inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// ExportFileName returns the file name for an export done at a date, e.g: `todos-2026-10-19.json`.
func ExportFileName(date time.Time, ext string) string {
	return fmt.Sprintf("%s-%s.%s", ExportFilePrefix, date.Format(ExportDateLayout), ext)
}
