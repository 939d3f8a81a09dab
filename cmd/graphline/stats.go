package main

import (
	"context"
	"fmt"
)

type StatsCommand struct{}

func (c *StatsCommand) Run(ctx context.Context, globals GlobalFlags) error {
	store, err := globals.Store()
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d nodes, %d arcs\n", stats.Nodes, stats.Arcs)
	return nil
}
