package main

import (
	"context"
	"fmt"
)

type InitCommand struct{}

func (c *InitCommand) Run(ctx context.Context, globals GlobalFlags) error {
	store, err := globals.Store()
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return err
	}
	fmt.Println("Store initialized.")
	return nil
}
