package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ayunami2000/sdgen/commands/command"
	"github.com/ayunami2000/sdgen/config"
	"github.com/ayunami2000/sdgen/output"
	"github.com/ayunami2000/sdgen/sdapi"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

const Name = "sdgen"

func NewExecutor() *command.Executor {
	executor := command.NewExecutor()
	executor.SetFallback(GenerateCommand)
	executor.RegisterCommand(RandomCommand)
	executor.RegisterCommand(HealthCommand)
	executor.RegisterCommand(HelpCommand)

	return executor
}

func NewLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: Name, Level: log.InfoLevel})
	if verbose {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}

	return logger
}

// Main parses args, runs the selected command and returns the exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	executor := NewExecutor()

	flags := config.NewFlagSet(Name)
	flags.SetOutput(stderr)
	flags.Usage = func() { printUsage(stderr, Name, executor, flags) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}

	logger := NewLogger(stderr, cfg.Verbose)
	cmd, alias, rest := executor.Resolve(flags.Args())
	logger.Debug("Resolved command", "command", cmd.Name, "alias", alias, "args", rest)

	cmdctx := &command.CommandContext{
		Executor: executor,
		Settings: command.NewSettings(cfg),
		Config:   cfg,
		Flags:    flags,
		Logger:   logger,
		Stdout:   stdout,
		NewClient: func(cc config.ClientConfig) (command.ImageClient, error) {
			return sdapi.NewClient(cc, sdapi.WithLogger(logger), sdapi.WithLimits(cfg.Limits))
		},
		NewSaver: func(dir string) command.ImageSaver {
			return output.NewWriter(dir)
		},
		Launch:          OpenInViewer,
		CalledWithName:  Name,
		CalledWithAlias: alias,
		Args:            rest,
	}

	return ReportError(stderr, Name, cmd.Run(ctx, cmdctx))
}
