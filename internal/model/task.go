package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeFormat is the ISO-8601 layout used for task and envelope timestamps.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Task is a single trackable item with completion state.
type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
	CreatedAt string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// NewTask creates a new task, the text is trimmed and must not be empty.
func NewTask(id int64, text string, now time.Time) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, fmt.Errorf("task text is empty: %w", ErrValidation)
	}

	return Task{
		ID:        id,
		Text:      text,
		CreatedAt: FormatTime(now),
	}, nil
}

// FormatTime formats a time using the task timestamp layout in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses a task timestamp. RFC 3339 timestamps without milliseconds are
// also accepted.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, s)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, ErrNotValid)
	}

	return t, nil
}

// NextID returns the id that should follow the highest id of the tasks, 1 when there
// are no tasks.
func NextID(tasks []Task) int64 {
	return MaxID(tasks) + 1
}

// MaxID returns the highest id of the tasks, 0 when there are no tasks.
func MaxID(tasks []Task) int64 {
	var maxID int64
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}

// TaskStats represents the completion state of a task list.
type TaskStats struct {
	Total     int
	Remaining int
	Completed int
}

// StatsOf calculates the stats of a task list.
func StatsOf(tasks []Task) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		}
	}
	stats.Remaining = stats.Total - stats.Completed

	return stats
}
