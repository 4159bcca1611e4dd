package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/todo/internal/app/importtasks"
	"github.com/slok/todo/internal/printer"
	"github.com/slok/todo/internal/reconcile"
)

type ImportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	path     string
	strategy string
}

// NewImportCommand returns the import command.
func NewImportCommand(rootCmd *RootCommand, app *kingpin.Application) *ImportCommand {
	c := &ImportCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("import", "Import tasks from a JSON or YAML file.")
	c.Cmd.Arg("file", "File with a list of tasks, YAML when the extension is .yaml or .yml.").Required().StringVar(&c.path)
	c.Cmd.Flag("strategy", "How imported tasks are applied (replace, merge).").Default(string(reconcile.StrategyReplace)).EnumVar(&c.strategy, string(reconcile.StrategyReplace), string(reconcile.StrategyMerge))

	return c
}

func (c ImportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ImportCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	store, err := openTaskStore(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := reconcile.NewReconciler(reconcile.ReconcilerConfig{
		Registry: store.registry,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create reconciler: %w", err)
	}

	svc, err := importtasks.NewService(importtasks.ServiceConfig{
		Importer: rec,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, importtasks.Request{
		Path:     c.path,
		Strategy: reconcile.Strategy(c.strategy),
	})
	if err != nil {
		return fmt.Errorf("could not import tasks: %w", err)
	}
	if resp.Warning != nil {
		c.rootCmd.warn(resp.Warning)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	msg := fmt.Sprintf("Imported %d tasks (%s).", resp.Result.Imported, resp.Result.Strategy)
	if resp.Result.Skipped > 0 {
		msg = fmt.Sprintf("Imported %d tasks (%s), %d invalid entries skipped.", resp.Result.Imported, resp.Result.Strategy, resp.Result.Skipped)
	}
	if err := p.PrintMessage(msg); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
