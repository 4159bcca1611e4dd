package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/todo/internal/app/clearall"
	"github.com/slok/todo/internal/printer"
)

type ClearCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewClearCommand returns the clear command.
func NewClearCommand(rootCmd *RootCommand, app *kingpin.Application) *ClearCommand {
	c := &ClearCommand{rootCmd: rootCmd}
	c.Cmd = app.Command("clear", "Remove all the tasks.")
	return c
}

func (c ClearCommand) Name() string { return c.Cmd.FullCommand() }

func (c ClearCommand) Run(ctx context.Context) error {
	store, err := openTaskStore(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := clearall.NewService(clearall.ServiceConfig{
		Registry: store.registry,
		Logger:   c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("could not clear tasks: %w", err)
	}
	if resp.Warning != nil {
		c.rootCmd.warn(resp.Warning)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if err := p.PrintMessage(fmt.Sprintf("Removed %d tasks.", resp.Cleared)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
