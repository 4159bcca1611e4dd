package printer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/slok/todo/internal/model"
)

// TablePrinter prints task information in a table format.
type TablePrinter struct {
	writer  io.Writer
	timeNow func() time.Time
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w, timeNow: time.Now}
}

// PrintList prints tasks in a table format followed by the remaining count.
func (t *TablePrinter) PrintList(tasks []model.Task, stats model.TaskStats) error {
	if len(tasks) > 0 {
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

		fmt.Fprintln(tw, "ID\tDONE\tTEXT\tCREATED")
		for _, task := range tasks {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", task.ID, checkbox(task.Completed), task.Text, t.created(task))
		}

		if err := tw.Flush(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(t.writer, itemsLeft(stats.Remaining))
	return err
}

// PrintTask prints a single task in one line.
func (t *TablePrinter) PrintTask(task model.Task) error {
	_, err := fmt.Fprintf(t.writer, "%s %d: %s\n", checkbox(task.Completed), task.ID, task.Text)
	return err
}

// PrintStats prints the collection stats.
func (t *TablePrinter) PrintStats(stats model.TaskStats) error {
	fmt.Fprintf(t.writer, "Total:      %d\n", stats.Total)
	fmt.Fprintf(t.writer, "Remaining:  %d\n", stats.Remaining)
	fmt.Fprintf(t.writer, "Completed:  %d\n", stats.Completed)
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

func (t *TablePrinter) created(task model.Task) string {
	if task.CreatedAt == "" {
		return "-"
	}

	ts, err := model.ParseTime(task.CreatedAt)
	if err != nil {
		return task.CreatedAt
	}

	return TimeAgo(ts, t.timeNow())
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func itemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}
