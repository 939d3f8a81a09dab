package commands

import (
	"context"
	"errors"
	"io"

	"github.com/graphline/graphline"
	"github.com/graphline/graphline/cli"
	"github.com/graphline/graphline/dataset"
)

// datasetResult maps a dataset ingestion failure onto the status protocol.
// Dataset errors carry the offending line number and render as a single
// generic ERROR message.
func datasetResult(err error) cli.Result {
	var dsErr *dataset.DatasetError
	if errors.As(err, &dsErr) {
		return cli.Errorf("%v", dsErr)
	}
	return cli.Errorf("reading data set: %v", err)
}

// AddArcs reads an arc dataset from the input stream and inserts it.
type AddArcs struct {
	store graphline.Store
}

func (c *AddArcs) Name() string     { return "add-arcs" }
func (c *AddArcs) Synopsis() string { return "add-arcs {<tail> <head>}" }
func (c *AddArcs) Help() string {
	return "add-arcs: read a data set of arcs from the input and add them to the graph.\n" +
		"Data sets are terminated by an empty line."
}
func (c *AddArcs) Kind() cli.Kind { return cli.KindOther }

func (c *AddArcs) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 0 {
		return cli.SyntaxError(c)
	}
	arcs, err := readArcs(in)
	if err != nil {
		return datasetResult(err)
	}
	added, err := c.store.AddArcs(ctx, arcs)
	if err != nil {
		return cli.Failuref("adding arcs: %v", err)
	}
	return cli.Successf("added %d arcs (%d new)", len(arcs), added)
}

// RemoveArcs reads an arc dataset from the input stream and deletes it.
type RemoveArcs struct {
	store graphline.Store
}

func (c *RemoveArcs) Name() string     { return "remove-arcs" }
func (c *RemoveArcs) Synopsis() string { return "remove-arcs {<tail> <head>}" }
func (c *RemoveArcs) Help() string {
	return "remove-arcs: read a data set of arcs from the input and remove them from the graph.\n" +
		"Data sets are terminated by an empty line."
}
func (c *RemoveArcs) Kind() cli.Kind { return cli.KindOther }

func (c *RemoveArcs) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 0 {
		return cli.SyntaxError(c)
	}
	arcs, err := readArcs(in)
	if err != nil {
		return datasetResult(err)
	}
	removed, err := c.store.RemoveArcs(ctx, arcs)
	if err != nil {
		return cli.Failuref("removing arcs: %v", err)
	}
	return cli.Successf("removed %d arcs", removed)
}

// ReplaceSuccessors replaces the outgoing arc set of a node with a node
// dataset read from the input stream.
type ReplaceSuccessors struct {
	store graphline.Store
}

func (c *ReplaceSuccessors) Name() string     { return "replace-successors" }
func (c *ReplaceSuccessors) Synopsis() string { return "replace-successors <node> {<successor>}" }
func (c *ReplaceSuccessors) Help() string {
	return "replace-successors: read a data set of node IDs from the input and make it the\n" +
		"complete successor set of <node>."
}
func (c *ReplaceSuccessors) Kind() cli.Kind { return cli.KindOther }

func (c *ReplaceSuccessors) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 1 {
		return cli.SyntaxError(c)
	}
	node, ok := parseNode(args[0])
	if !ok {
		return cli.SyntaxError(c)
	}
	heads, err := readNodes(in)
	if err != nil {
		return datasetResult(err)
	}
	if err := c.store.ReplaceSuccessors(ctx, node, heads); err != nil {
		return cli.Failuref("replacing successors: %v", err)
	}
	return cli.Successf("node %d now has %d successors", node, len(heads))
}

// ReplacePredecessors replaces the incoming arc set of a node with a node
// dataset read from the input stream.
type ReplacePredecessors struct {
	store graphline.Store
}

func (c *ReplacePredecessors) Name() string     { return "replace-predecessors" }
func (c *ReplacePredecessors) Synopsis() string { return "replace-predecessors <node> {<predecessor>}" }
func (c *ReplacePredecessors) Help() string {
	return "replace-predecessors: read a data set of node IDs from the input and make it the\n" +
		"complete predecessor set of <node>."
}
func (c *ReplacePredecessors) Kind() cli.Kind { return cli.KindOther }

func (c *ReplacePredecessors) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 1 {
		return cli.SyntaxError(c)
	}
	node, ok := parseNode(args[0])
	if !ok {
		return cli.SyntaxError(c)
	}
	tails, err := readNodes(in)
	if err != nil {
		return datasetResult(err)
	}
	if err := c.store.ReplacePredecessors(ctx, node, tails); err != nil {
		return cli.Failuref("replacing predecessors: %v", err)
	}
	return cli.Successf("node %d now has %d predecessors", node, len(tails))
}
