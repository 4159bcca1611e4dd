package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/todo/internal/app/list"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	status string
	filter string
	format string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List the tasks.").Alias("ls")
	c.Cmd.Flag("status", "Filter by status (all, active, completed).").Default(string(list.StatusAll)).EnumVar(&c.status, string(list.StatusAll), string(list.StatusActive), string(list.StatusCompleted))
	c.Cmd.Flag("filter", `Filter expression over id, text, completed and createdAt (e.g: 'text contains "milk"').`).StringVar(&c.filter)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	store, err := openTaskStore(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := list.NewService(list.ServiceConfig{
		Registry: store.registry,
		Logger:   c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, list.Request{
		Status: list.Status(c.status),
		Filter: c.filter,
	})
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}

	p := newPrinter(c.format, c.rootCmd.Stdout)
	if err := p.PrintList(resp.Tasks, resp.Stats); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
