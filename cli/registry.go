package cli

import (
	"errors"
	"fmt"
)

var (
	errCommandExists    = errors.New("command already registered")
	errInvalidArguments = errors.New("invalid arguments")
)

// Registry holds the commands available to the interpreter, in registration
// order, unique by name. It also carries the quit latch the hosting loop
// polls to decide when to stop.
type Registry struct {
	commands []Command
	doQuit   bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a command. Names must be unique across the registry lifetime.
func (r *Registry) Register(c Command) error {
	if c == nil {
		return fmt.Errorf("command is nil: %w", errInvalidArguments)
	}
	if c.Name() == "" {
		return fmt.Errorf("command name is empty: %w", errInvalidArguments)
	}
	if _, ok := r.Find(c.Name()); ok {
		return fmt.Errorf("%s: %w", c.Name(), errCommandExists)
	}
	r.commands = append(r.commands, c)
	return nil
}

// Find looks a command up by exact, case-sensitive name. There is no prefix
// or abbreviation matching.
func (r *Registry) Find(name string) (Command, bool) {
	for _, c := range r.commands {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []Command {
	return r.commands
}

// RequestQuit latches the quit flag. There is no way to reset it.
func (r *Registry) RequestQuit() {
	r.doQuit = true
}

// QuitRequested reports whether a command has asked the hosting loop to stop.
func (r *Registry) QuitRequested() bool {
	return r.doQuit
}
