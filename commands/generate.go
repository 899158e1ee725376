package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayunami2000/sdgen/commands/command"
	"github.com/ayunami2000/sdgen/utils"
)

var (
	ErrPromptRequired = errors.New("prompt is required")
	ErrSave           = errors.New("failed to save image")
)

var GenerateCommand = command.NewCommand("generate", nil, "<prompt...>", nil, generateCommandRun)

func generateCommandRun(ctx context.Context, cmdctx *command.CommandContext) error {
	prompt := strings.Join(cmdctx.Args, " ")
	if prompt == "" {
		return ErrPromptRequired
	}

	cmdctx.Settings.Prompt = prompt
	return Render(ctx, cmdctx)
}

// Render generates an image from the current settings, saves it unless
// saving is disabled and prints the summary.
func Render(ctx context.Context, cmdctx *command.CommandContext) error {
	client, err := cmdctx.Client()
	if err != nil {
		return err
	}

	settings := cmdctx.Settings
	start := time.Now()
	result, err := client.Generate(ctx, settings.Request())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	savedPath := ""
	if settings.Save {
		savedPath, err = cmdctx.NewSaver(cmdctx.Config.OutputDir).Save(result.Image)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSave, err)
		}
		cmdctx.Logger.Debug("Image saved", "path", savedPath)
	}

	cmdctx.Printf("\n✅ Image generated successfully!\n")
	cmdctx.Printf("   Prompt:   %s\n", settings.Prompt)
	cmdctx.Printf("   Negative: %s\n", utils.StringOrNone(settings.NegativePrompt))
	cmdctx.Printf("   Seed:     %d\n", result.Seed)
	cmdctx.Printf("   Time:     %.2fs (inference %.2fs)\n", elapsed.Seconds(), result.InferenceTime.Seconds())
	if savedPath != "" {
		cmdctx.Printf("   Saved to: %s\n", savedPath)
	}

	if settings.Open && savedPath != "" && cmdctx.Launch != nil {
		if err := cmdctx.Launch(savedPath); err != nil {
			cmdctx.Logger.Warn("Could not open image viewer", "err", err)
		}
	}

	return nil
}
