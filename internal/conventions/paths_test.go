package conventions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/todo/internal/conventions"
)

func TestExportFileName(t *testing.T) {
	date := time.Date(2026, 3, 7, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "todos-2026-03-07.json", conventions.ExportFileName(date, "json"))
	assert.Equal(t, "todos-2026-03-07.yaml", conventions.ExportFileName(date, "yaml"))
}

func TestDBPath(t *testing.T) {
	assert.Equal(t, "/home/u/.todo/todo.db", conventions.DBPath("/home/u/.todo"))
}
