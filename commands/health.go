package commands

import (
	"context"
	"fmt"

	"github.com/ayunami2000/sdgen/commands/command"
	"github.com/ayunami2000/sdgen/sdapi"
)

var HealthCommand = command.NewCommand("health", []string{"ping", "check"}, "", command.NoArgs, healthCommandRun)

func healthCommandRun(ctx context.Context, cmdctx *command.CommandContext) error {
	client, err := cmdctx.Client()
	if err != nil {
		return err
	}

	if !client.CheckConnection(ctx) {
		if ctx.Err() != nil {
			return &sdapi.Error{Kind: sdapi.ErrInterrupted, Message: "Health check interrupted", Cause: ctx.Err()}
		}
		return &sdapi.Error{Kind: sdapi.ErrConnection, Message: fmt.Sprintf("Cannot connect to API at %s. Make sure the remote server is running.", client.BaseURL())}
	}

	cmdctx.Printf("✅ API at %s is healthy\n", client.BaseURL())
	return nil
}
