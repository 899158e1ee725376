package command

import "github.com/ayunami2000/sdgen/utils"

type Executor struct {
	commands []*Command
	fallback *Command
}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) GetCommands() []*Command {
	return e.commands
}

func (e *Executor) RegisterCommand(cmd *Command) {
	e.commands = append(e.commands, cmd)
}

// SetFallback registers cmd and makes it the one Resolve picks when the
// first argument is not a command name.
func (e *Executor) SetFallback(cmd *Command) {
	e.RegisterCommand(cmd)
	e.fallback = cmd
}

func (e *Executor) Find(name string) (*Command, bool) {
	for _, cmd := range e.commands {
		if cmd.Name == name || utils.Contains(cmd.Aliases, name) {
			return cmd, true
		}
	}

	return nil, false
}

// Resolve splits positional arguments into a command, the name it was
// called with and its arguments. The first word only selects a command
// when the remaining words fit it; otherwise everything goes to the
// fallback.
func (e *Executor) Resolve(args []string) (*Command, string, []string) {
	if len(args) > 0 {
		if cmd, ok := e.Find(args[0]); ok && cmd.Accepts(args[1:]) {
			return cmd, args[0], args[1:]
		}
	}

	if e.fallback == nil {
		return nil, "", args
	}
	return e.fallback, e.fallback.Name, args
}
