package printer

import (
	"encoding/json"
	"io"

	"github.com/slok/todo/internal/model"
)

// JSONPrinter prints task information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type statsOutput struct {
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
	Completed int `json:"completed"`
}

type listOutput struct {
	Tasks []model.Task `json:"tasks"`
	Stats statsOutput  `json:"stats"`
}

type messageOutput struct {
	Message string `json:"message"`
}

func newStatsOutput(s model.TaskStats) statsOutput {
	return statsOutput{Total: s.Total, Remaining: s.Remaining, Completed: s.Completed}
}

// PrintList prints the tasks with the collection stats.
func (j *JSONPrinter) PrintList(tasks []model.Task, stats model.TaskStats) error {
	if tasks == nil {
		tasks = []model.Task{}
	}

	return j.encode(listOutput{Tasks: tasks, Stats: newStatsOutput(stats)})
}

// PrintTask prints a single task.
func (j *JSONPrinter) PrintTask(task model.Task) error {
	return j.encode(task)
}

// PrintStats prints the collection stats.
func (j *JSONPrinter) PrintStats(stats model.TaskStats) error {
	return j.encode(newStatsOutput(stats))
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
