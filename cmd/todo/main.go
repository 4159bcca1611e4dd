package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/slok/todo/cmd/todo/commands"
	"github.com/slok/todo/internal/log"
	loglogrus "github.com/slok/todo/internal/log/logrus"
	"github.com/slok/todo/internal/model"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	app := kingpin.New("todo", "Local task list manager.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	// Setup commands (registers flags).
	addCmd := commands.NewAddCommand(rootCmd, app)
	doneCmd := commands.NewDoneCommand(rootCmd, app)
	removeCmd := commands.NewRemoveCommand(rootCmd, app)
	clearCmd := commands.NewClearCommand(rootCmd, app)
	listCmd := commands.NewListCommand(rootCmd, app)
	statsCmd := commands.NewStatsCommand(rootCmd, app)
	exportCmd := commands.NewExportCommand(rootCmd, app)
	importCmd := commands.NewImportCommand(rootCmd, app)

	cmds := map[string]commands.Command{
		addCmd.Name():    addCmd,
		doneCmd.Name():   doneCmd,
		removeCmd.Name(): removeCmd,
		clearCmd.Name():  clearCmd,
		listCmd.Name():   listCmd,
		statsCmd.Name():  statsCmd,
		exportCmd.Name(): exportCmd,
		importCmd.Name(): importCmd,
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	// Commands that print the tasks don't log unless debug is requested, so the log
	// lines don't mix with the printed output.
	printerCommands := map[string]bool{
		"list":   true,
		"stats":  true,
		"export": true,
	}
	if printerCommands[cmdName] && !rootCmd.Debug {
		rootCmd.NoLog = true
	}

	// Set logger.
	rootCmd.Logger = getLogger(*rootCmd)

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// getLogger returns the application logger.
func getLogger(config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	logrusLog := logrus.New()
	logrusLog.Out = config.Stderr // Logs go to stderr so stdout only has the printed output.
	logrusLogEntry := logrus.NewEntry(logrusLog)

	// Only warnings by default, the printed output already tells what happened.
	logrusLogEntry.Logger.SetLevel(logrus.WarnLevel)
	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !config.NoColor,
			DisableColors: config.NoColor,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})

	logger.Debugf("Debug level is enabled")

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", model.UserMessage(err))
		os.Exit(1)
	}
}
