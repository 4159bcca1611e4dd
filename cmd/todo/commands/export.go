package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/todo/internal/app/export"
	"github.com/slok/todo/internal/printer"
	"github.com/slok/todo/internal/reconcile"
)

type ExportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	outDir string
	stdout bool
	format string
}

// NewExportCommand returns the export command.
func NewExportCommand(rootCmd *RootCommand, app *kingpin.Application) *ExportCommand {
	c := &ExportCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("export", "Export the tasks to a dated file that can be imported back.")
	c.Cmd.Flag("out-dir", "Directory where the export file is written.").Short('o').Default(".").StringVar(&c.outDir)
	c.Cmd.Flag("stdout", "Write the export to stdout instead of a file.").BoolVar(&c.stdout)
	c.Cmd.Flag("format", "Export format (json, yaml).").Default(string(reconcile.FormatJSON)).EnumVar(&c.format, string(reconcile.FormatJSON), string(reconcile.FormatYAML))

	return c
}

func (c ExportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ExportCommand) Run(ctx context.Context) error {
	store, err := openTaskStore(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := export.NewService(export.ServiceConfig{
		Registry: store.registry,
		Logger:   c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	req := export.Request{Format: reconcile.Format(c.format)}
	if !c.stdout {
		req.Dir = c.outDir
	}

	resp, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("could not export tasks: %w", err)
	}

	if c.stdout {
		if _, err := c.rootCmd.Stdout.Write(resp.Data); err != nil {
			return fmt.Errorf("could not write export: %w", err)
		}
		return nil
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	msg := fmt.Sprintf("Exported %d tasks to %s (%s)", resp.Count, resp.Path, printer.FormatBytes(int64(len(resp.Data))))
	if err := p.PrintMessage(msg); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
