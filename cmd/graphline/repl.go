package main

import (
	"context"
	"os"

	"github.com/graphline/graphline"
	"github.com/graphline/graphline/cli"
	"github.com/graphline/graphline/commands"
	"github.com/graphline/graphline/natsfeed"
	"github.com/nats-io/nats.go"
)

type ReplCommand struct {
	Prompt      string `help:"Prompt written before each command line." default:"> "`
	NatsURL     string `help:"NATS server URL. If set, mutations are published to NATS."`
	NatsSubject string `help:"Subject prefix for published mutations." default:"graphline"`
}

func (c *ReplCommand) Run(ctx context.Context, globals GlobalFlags) error {
	store, err := c.store(globals)
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return err
	}

	registry := cli.NewRegistry()
	if err := commands.RegisterAll(registry, store); err != nil {
		return err
	}

	interp := cli.NewInterp(registry, globals.Logger())
	interp.Prompt = c.Prompt
	return interp.Run(ctx, os.Stdin, os.Stdout)
}

func (c *ReplCommand) store(globals GlobalFlags) (graphline.Store, error) {
	store, err := globals.Store()
	if err != nil {
		return nil, err
	}
	if c.NatsURL == "" {
		return store, nil
	}
	nc, err := nats.Connect(c.NatsURL)
	if err != nil {
		return nil, err
	}
	return natsfeed.Wrap(store, nc, natsfeed.Config{
		SubjectPrefix: c.NatsSubject,
		Logger:        globals.Logger(),
	})
}
