package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/todo/internal/app/toggle"
	"github.com/slok/todo/internal/printer"
)

type DoneCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id int64
}

// NewDoneCommand returns the done command, it toggles the completion of a task.
func NewDoneCommand(rootCmd *RootCommand, app *kingpin.Application) *DoneCommand {
	c := &DoneCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("done", "Toggle the completion of a task.")
	c.Cmd.Arg("id", "Task ID.").Required().Int64Var(&c.id)

	return c
}

func (c DoneCommand) Name() string { return c.Cmd.FullCommand() }

func (c DoneCommand) Run(ctx context.Context) error {
	store, err := openTaskStore(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := toggle.NewService(toggle.ServiceConfig{
		Registry: store.registry,
		Logger:   c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, toggle.Request{ID: c.id})
	if err != nil {
		return fmt.Errorf("could not toggle task: %w", err)
	}
	if resp.Warning != nil {
		c.rootCmd.warn(resp.Warning)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if !resp.Found {
		return p.PrintMessage(fmt.Sprintf("Task %d not found.", c.id))
	}

	if err := p.PrintTask(resp.Task); err != nil {
		return fmt.Errorf("could not print task: %w", err)
	}

	return nil
}
