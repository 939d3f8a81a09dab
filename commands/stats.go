package commands

import (
	"context"
	"io"

	"github.com/graphline/graphline"
	"github.com/graphline/graphline/cli"
	"github.com/graphline/graphline/dataset"
)

// Stats reports the size of the graph.
type Stats struct {
	store graphline.Store
}

func (c *Stats) Name() string     { return "stats" }
func (c *Stats) Synopsis() string { return "stats" }
func (c *Stats) Help() string {
	return "stats: report the number of nodes and arcs in the graph."
}
func (c *Stats) Kind() cli.Kind { return cli.KindOther }

func (c *Stats) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 0 {
		return cli.SyntaxError(c)
	}
	stats, err := c.store.Stats(ctx)
	if err != nil {
		return cli.Failuref("reading stats: %v", err)
	}
	return cli.Successf("%d nodes, %d arcs", stats.Nodes, stats.Arcs)
}

// Clear removes every arc from the graph.
type Clear struct {
	store graphline.Store
}

func (c *Clear) Name() string     { return "clear" }
func (c *Clear) Synopsis() string { return "clear" }
func (c *Clear) Help() string {
	return "clear: remove every arc from the graph."
}
func (c *Clear) Kind() cli.Kind { return cli.KindOther }

func (c *Clear) Execute(ctx context.Context, args []string, in *dataset.Reader, out io.Writer) cli.Result {
	if len(args) != 0 {
		return cli.SyntaxError(c)
	}
	if err := c.store.Clear(ctx); err != nil {
		return cli.Failuref("clearing graph: %v", err)
	}
	return cli.Successf("graph cleared")
}
