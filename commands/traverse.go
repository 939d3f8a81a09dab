package commands

import (
	"context"
	"io"

	"github.com/graphline/graphline"
	"github.com/graphline/graphline/cli"
	"github.com/graphline/graphline/dataset"
)

// parseTraverseArgs parses "<node> [depth]". Depth 0 means unlimited.
func parseTraverseArgs(args []string) (node graphline.NodeID, depth int, ok bool) {
	if len(args) < 1 || len(args) > 2 {
		return 0, 0, false
	}
	node, ok = parseNode(args[0])
	if !ok {
		return 0, 0, false
	}
	if len(args) == 2 {
		if !dataset.IsValidUint(args[1]) {
			return 0, 0, false
		}
		v, err := dataset.ParseUint(args[1])
		if err != nil {
			return 0, 0, false
		}
		depth = int(v)
	}
	return node, depth, true
}

// TraverseSuccessors lists every node reachable from a start node by
// following arcs forward, optionally limited in depth.
type TraverseSuccessors struct {
	store graphline.Store
}

func (c *TraverseSuccessors) Name() string     { return "traverse-successors" }
func (c *TraverseSuccessors) Synopsis() string { return "traverse-successors <node> [depth]" }
func (c *TraverseSuccessors) Help() string {
	return "traverse-successors: breadth-first walk over outgoing arcs from <node>,\n" +
		"listing every reachable node. An optional depth bounds the walk; 0 means unlimited."
}
func (c *TraverseSuccessors) Kind() cli.Kind { return cli.KindNodeList }

func (c *TraverseSuccessors) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	node, depth, ok := parseTraverseArgs(args)
	if !ok {
		return cli.SyntaxError(c)
	}
	nodes, err := graphline.Traverse(ctx, c.store, node, graphline.Forward, graphline.TraversalOptions{MaxDepth: depth})
	if err != nil {
		return cli.Failuref("traversing successors: %v", err)
	}
	return cli.Result{Status: cli.StatusSuccess, Nodes: nodes}
}

// TraversePredecessors lists every node reaching a target node by following
// arcs backward, optionally limited in depth.
type TraversePredecessors struct {
	store graphline.Store
}

func (c *TraversePredecessors) Name() string     { return "traverse-predecessors" }
func (c *TraversePredecessors) Synopsis() string { return "traverse-predecessors <node> [depth]" }
func (c *TraversePredecessors) Help() string {
	return "traverse-predecessors: breadth-first walk over incoming arcs from <node>,\n" +
		"listing every node that reaches it. An optional depth bounds the walk; 0 means unlimited."
}
func (c *TraversePredecessors) Kind() cli.Kind { return cli.KindNodeList }

func (c *TraversePredecessors) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	node, depth, ok := parseTraverseArgs(args)
	if !ok {
		return cli.SyntaxError(c)
	}
	nodes, err := graphline.Traverse(ctx, c.store, node, graphline.Backward, graphline.TraversalOptions{MaxDepth: depth})
	if err != nil {
		return cli.Failuref("traversing predecessors: %v", err)
	}
	return cli.Result{Status: cli.StatusSuccess, Nodes: nodes}
}

// FindPath finds the shortest arc path between two nodes.
type FindPath struct {
	store graphline.Store
}

func (c *FindPath) Name() string     { return "find-path" }
func (c *FindPath) Synopsis() string { return "find-path <from> <to>" }
func (c *FindPath) Help() string {
	return "find-path: find a shortest path of arcs from <from> to <to>.\n" +
		"Reports NONE when no path exists."
}
func (c *FindPath) Kind() cli.Kind { return cli.KindArcList }

func (c *FindPath) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 2 {
		return cli.SyntaxError(c)
	}
	from, ok := parseNode(args[0])
	if !ok {
		return cli.SyntaxError(c)
	}
	to, ok := parseNode(args[1])
	if !ok {
		return cli.SyntaxError(c)
	}
	path, err := graphline.FindPath(ctx, c.store, from, to, graphline.TraversalOptions{})
	if err != nil {
		return cli.Failuref("finding path: %v", err)
	}
	if path == nil {
		return cli.Nonef("no path from %d to %d", from, to)
	}
	return cli.Result{Status: cli.StatusSuccess, Arcs: path.Arcs}
}
