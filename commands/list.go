package commands

import (
	"context"
	"io"

	"github.com/graphline/graphline"
	"github.com/graphline/graphline/cli"
	"github.com/graphline/graphline/dataset"
)

// ListSuccessors lists the direct successors of a node.
type ListSuccessors struct {
	store graphline.Store
}

func (c *ListSuccessors) Name() string     { return "list-successors" }
func (c *ListSuccessors) Synopsis() string { return "list-successors <node>" }
func (c *ListSuccessors) Help() string {
	return "list-successors: list the heads of all arcs leaving <node>."
}
func (c *ListSuccessors) Kind() cli.Kind { return cli.KindNodeList }

func (c *ListSuccessors) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 1 {
		return cli.SyntaxError(c)
	}
	node, ok := parseNode(args[0])
	if !ok {
		return cli.SyntaxError(c)
	}
	nodes, err := c.store.Successors(ctx, node)
	if err != nil {
		return cli.Failuref("listing successors: %v", err)
	}
	return cli.Result{Status: cli.StatusSuccess, Nodes: nodes}
}

// ListPredecessors lists the direct predecessors of a node.
type ListPredecessors struct {
	store graphline.Store
}

func (c *ListPredecessors) Name() string     { return "list-predecessors" }
func (c *ListPredecessors) Synopsis() string { return "list-predecessors <node>" }
func (c *ListPredecessors) Help() string {
	return "list-predecessors: list the tails of all arcs entering <node>."
}
func (c *ListPredecessors) Kind() cli.Kind { return cli.KindNodeList }

func (c *ListPredecessors) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 1 {
		return cli.SyntaxError(c)
	}
	node, ok := parseNode(args[0])
	if !ok {
		return cli.SyntaxError(c)
	}
	nodes, err := c.store.Predecessors(ctx, node)
	if err != nil {
		return cli.Failuref("listing predecessors: %v", err)
	}
	return cli.Result{Status: cli.StatusSuccess, Nodes: nodes}
}

// ListRoots lists all nodes without incoming arcs.
type ListRoots struct {
	store graphline.Store
}

func (c *ListRoots) Name() string     { return "list-roots" }
func (c *ListRoots) Synopsis() string { return "list-roots" }
func (c *ListRoots) Help() string {
	return "list-roots: list all nodes that have outgoing arcs but no incoming arcs."
}
func (c *ListRoots) Kind() cli.Kind { return cli.KindNodeList }

func (c *ListRoots) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 0 {
		return cli.SyntaxError(c)
	}
	nodes, err := c.store.Roots(ctx)
	if err != nil {
		return cli.Failuref("listing roots: %v", err)
	}
	return cli.Result{Status: cli.StatusSuccess, Nodes: nodes}
}

// ListLeaves lists all nodes without outgoing arcs.
type ListLeaves struct {
	store graphline.Store
}

func (c *ListLeaves) Name() string     { return "list-leaves" }
func (c *ListLeaves) Synopsis() string { return "list-leaves" }
func (c *ListLeaves) Help() string {
	return "list-leaves: list all nodes that have incoming arcs but no outgoing arcs."
}
func (c *ListLeaves) Kind() cli.Kind { return cli.KindNodeList }

func (c *ListLeaves) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 0 {
		return cli.SyntaxError(c)
	}
	nodes, err := c.store.Leaves(ctx)
	if err != nil {
		return cli.Failuref("listing leaves: %v", err)
	}
	return cli.Result{Status: cli.StatusSuccess, Nodes: nodes}
}
