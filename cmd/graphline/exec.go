package main

import (
	"context"
	"os"

	"github.com/graphline/graphline/cli"
	"github.com/graphline/graphline/commands"
)

type ExecCommand struct {
	Script string `arg:"" help:"Script file to run, or '-' for stdin."`
}

func (c *ExecCommand) Run(ctx context.Context, globals GlobalFlags) error {
	store, err := globals.Store()
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return err
	}

	in := os.Stdin
	if c.Script != "-" {
		f, err := os.Open(c.Script)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	registry := cli.NewRegistry()
	if err := commands.RegisterAll(registry, store); err != nil {
		return err
	}

	interp := cli.NewInterp(registry, globals.Logger())
	return interp.Run(ctx, in, os.Stdout)
}
