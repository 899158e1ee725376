// Adapted from https://github.com/cutest-design/bot2/blob/main/command/command.go (my own code)
package command

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/ayunami2000/sdgen/config"
	"github.com/ayunami2000/sdgen/sdapi"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

// ImageClient is the part of *sdapi.Client the commands need.
type ImageClient interface {
	BaseURL() string
	CheckConnection(ctx context.Context) bool
	Generate(ctx context.Context, data *sdapi.GenerationRequest) (*sdapi.Result, error)
}

type ImageSaver interface {
	Save(img image.Image) (string, error)
}

type Settings struct {
	Prompt         string
	NegativePrompt string

	Width  int
	Height int

	InferenceSteps int
	GuidanceScale  float64
	Seed           *int64

	Save        bool
	Open        bool
	RandomWords int
}

func NewSettings(cfg *config.Config) *Settings {
	return &Settings{
		NegativePrompt: cfg.NegativePrompt,
		Width:          cfg.Width,
		Height:         cfg.Height,
		InferenceSteps: cfg.Steps,
		GuidanceScale:  cfg.GuidanceScale,
		Seed:           cfg.Seed,
		Save:           !cfg.NoSave,
		Open:           cfg.Open,
		RandomWords:    cfg.RandomWords,
	}
}

func (s *Settings) Request() *sdapi.GenerationRequest {
	return &sdapi.GenerationRequest{
		Prompt:         s.Prompt,
		NegativePrompt: s.NegativePrompt,
		Width:          s.Width,
		Height:         s.Height,
		Steps:          s.InferenceSteps,
		GuidanceScale:  s.GuidanceScale,
		Seed:           s.Seed,
	}
}

type CommandContext struct {
	Executor *Executor
	Settings *Settings
	Config   *config.Config
	Flags    *pflag.FlagSet
	Logger   *log.Logger

	Stdout io.Writer

	NewClient func(cfg config.ClientConfig) (ImageClient, error)
	NewSaver  func(dir string) ImageSaver
	Launch    func(path string) error

	// Words replaces the system dictionary for random prompts when set.
	Words []string

	CalledWithName  string
	CalledWithAlias string
	Args            []string
}

func (c *CommandContext) Printf(format string, a ...any) {
	fmt.Fprintf(c.Stdout, format, a...)
}

// Client builds an API client from the loaded configuration.
func (c *CommandContext) Client() (ImageClient, error) {
	cc, err := c.Config.ClientConfig()
	if err != nil {
		return nil, err
	}

	return c.NewClient(cc)
}

// ArgsMatcher reports whether args fit a command. A command whose matcher
// rejects its arguments is not selected, so the words stay in the prompt.
type ArgsMatcher func(args []string) bool

func NoArgs(args []string) bool {
	return len(args) == 0
}

type Command struct {
	Name    string
	Aliases []string
	Usage   string
	accepts ArgsMatcher
	run     func(context.Context, *CommandContext) error
}

// NewCommand creates a command. A nil accepts takes any arguments.
func NewCommand(name string, aliases []string, usage string, accepts ArgsMatcher, run func(context.Context, *CommandContext) error) *Command {
	return &Command{
		Name:    name,
		Aliases: aliases,
		Usage:   usage,
		accepts: accepts,
		run:     run,
	}
}

func (c *Command) Accepts(args []string) bool {
	return c.accepts == nil || c.accepts(args)
}

func (c *Command) Run(ctx context.Context, cmdctx *CommandContext) error {
	return c.run(ctx, cmdctx)
}
