package printer

import "github.com/slok/todo/internal/model"

// Printer knows how to print task information in different formats.
type Printer interface {
	PrintList(tasks []model.Task, stats model.TaskStats) error
	PrintTask(task model.Task) error
	PrintStats(stats model.TaskStats) error
	PrintMessage(msg string) error
}
