package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ayunami2000/sdgen/commands/command"
	"github.com/ayunami2000/sdgen/utils"
	"github.com/tjarratt/babble"
)

const (
	minRandomWords = 1
	maxRandomWords = 100
)

var ErrNoDictionary = errors.New("no word list available for random prompts")

var RandomCommand = command.NewCommand("random", []string{"rand", "rr"}, "[word count]", wordCountArgs, randomCommandRun)

func wordCountArgs(args []string) bool {
	if len(args) == 0 {
		return true
	}
	if len(args) > 1 {
		return false
	}
	_, err := strconv.Atoi(args[0])
	return err == nil
}

func randomCommandRun(ctx context.Context, cmdctx *command.CommandContext) error {
	count := cmdctx.Settings.RandomWords
	if len(cmdctx.Args) > 0 {
		i, err := strconv.Atoi(cmdctx.Args[0])
		if err != nil {
			return fmt.Errorf("invalid word count %q: %w", cmdctx.Args[0], err)
		}
		count = i
	}

	babbler, err := newBabbler(cmdctx.Words)
	if err != nil {
		return err
	}
	babbler.Count = clampWords(count)

	cmdctx.Settings.Prompt = utils.TruncateText(babbler.Babble(), cmdctx.Config.Limits.MaxPromptLength)
	cmdctx.Logger.Info("Prompt randomly set", "prompt", cmdctx.Settings.Prompt)

	return Render(ctx, cmdctx)
}

func clampWords(i int) int {
	if i < minRandomWords {
		return minRandomWords
	} else if i > maxRandomWords {
		return maxRandomWords
	}
	return i
}

// newBabbler uses words when given, otherwise the system dictionary.
// babble panics when no dictionary is installed.
func newBabbler(words []string) (b babble.Babbler, err error) {
	if len(words) > 0 {
		return babble.Babbler{Separator: ", ", Words: words}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrNoDictionary, r)
		}
	}()

	b = babble.NewBabbler()
	if len(b.Words) == 0 {
		return b, ErrNoDictionary
	}
	b.Separator = ", "
	return b, nil
}
