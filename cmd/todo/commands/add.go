package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/todo/internal/app/add"
	"github.com/slok/todo/internal/printer"
)

type AddCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	words []string
}

// NewAddCommand returns the add command.
func NewAddCommand(rootCmd *RootCommand, app *kingpin.Application) *AddCommand {
	c := &AddCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("add", "Add a new task.")
	c.Cmd.Arg("text", "Task text.").Required().StringsVar(&c.words)

	return c
}

func (c AddCommand) Name() string { return c.Cmd.FullCommand() }

func (c AddCommand) Run(ctx context.Context) error {
	store, err := openTaskStore(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := add.NewService(add.ServiceConfig{
		Registry: store.registry,
		Logger:   c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, add.Request{Text: strings.Join(c.words, " ")})
	if err != nil {
		return fmt.Errorf("could not add task: %w", err)
	}
	if resp.Warning != nil {
		c.rootCmd.warn(resp.Warning)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if err := p.PrintTask(resp.Task); err != nil {
		return fmt.Errorf("could not print task: %w", err)
	}

	return nil
}
