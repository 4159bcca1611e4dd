package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/todo/internal/codec"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/printer"
)

type StatsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewStatsCommand returns the stats command.
func NewStatsCommand(rootCmd *RootCommand, app *kingpin.Application) *StatsCommand {
	c := &StatsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("stats", "Show the task counts.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c StatsCommand) Name() string { return c.Cmd.FullCommand() }

func (c StatsCommand) Run(ctx context.Context) error {
	store, err := openTaskStore(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer store.Close()

	p := newPrinter(c.format, c.rootCmd.Stdout)
	if err := p.PrintStats(store.registry.Stats()); err != nil {
		return fmt.Errorf("could not print stats: %w", err)
	}

	if c.format != formatTable {
		return nil
	}

	savedAt := store.lastSaved
	if savedAt.IsZero() {
		// Stored tasks without a save time, use the slot write time.
		savedAt, err = store.repo.SlotUpdatedAt(ctx, codec.DefaultSlotKey)
		switch {
		case errors.Is(err, model.ErrNotFound):
			return p.PrintMessage("Last saved: never")
		case err != nil:
			return fmt.Errorf("could not get last save time: %w", err)
		}
	}

	return p.PrintMessage(fmt.Sprintf("Last saved: %s", printer.TimeAgo(savedAt, time.Now())))
}
