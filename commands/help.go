package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ayunami2000/sdgen/commands/command"
	"github.com/spf13/pflag"
)

var HelpCommand = command.NewCommand("help", []string{"h", "?"}, "", command.NoArgs, helpCommandRun)

func helpCommandRun(_ context.Context, cmdctx *command.CommandContext) error {
	printUsage(cmdctx.Stdout, cmdctx.CalledWithName, cmdctx.Executor, cmdctx.Flags)
	return nil
}

func printUsage(w io.Writer, name string, executor *command.Executor, flags *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage:\n  %s [flags] <prompt...>\n  %s [flags] <command> [args]\n\nCommands:\n", name, name)
	for _, cmd := range executor.GetCommands() {
		usage := cmd.Name
		if cmd.Usage != "" {
			usage += " " + cmd.Usage
		}
		if len(cmd.Aliases) == 0 {
			fmt.Fprintf(w, "  %s\n", usage)
			continue
		}
		fmt.Fprintf(w, "  %-24s aliases: %s\n", usage, strings.Join(cmd.Aliases, ", "))
	}

	if flags != nil {
		fmt.Fprintf(w, "\nFlags:\n%s", flags.FlagUsages())
	}

	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s \"a serene mountain landscape at sunset\"\n", name)
	fmt.Fprintf(w, "  %s -u https://abc123.ngrok.io -w 768 -h 768 \"a futuristic city\"\n", name)
	fmt.Fprintf(w, "  %s random 8\n", name)
}
