package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/graphline/graphline/cli"
	"github.com/graphline/graphline/dataset"
)

// Help lists the registered commands, or prints the help text of one command.
type Help struct {
	registry *cli.Registry
}

func (c *Help) Name() string     { return "help" }
func (c *Help) Synopsis() string { return "help [command]" }
func (c *Help) Help() string {
	return "help: list available commands.\nhelp <command>: describe one command."
}
func (c *Help) Kind() cli.Kind { return cli.KindOther }

func (c *Help) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	switch len(args) {
	case 0:
		for _, cmd := range c.registry.Commands() {
			fmt.Fprintf(out, "%s\n", cmd.Synopsis())
		}
		return cli.Successf("")
	case 1:
		cmd, ok := c.registry.Find(args[0])
		if !ok {
			return cli.Failuref("unknown command %q", args[0])
		}
		fmt.Fprintf(out, "%s\n", cmd.Help())
		return cli.Successf("")
	default:
		return cli.SyntaxError(c)
	}
}

// Quit asks the hosting loop to stop after the current command.
type Quit struct {
	registry *cli.Registry
}

func (c *Quit) Name() string     { return "quit" }
func (c *Quit) Synopsis() string { return "quit" }
func (c *Quit) Help() string     { return "quit: leave the interpreter." }
func (c *Quit) Kind() cli.Kind   { return cli.KindNone }

func (c *Quit) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 0 {
		return cli.SyntaxError(c)
	}
	c.registry.RequestQuit()
	return cli.Successf("bye")
}
