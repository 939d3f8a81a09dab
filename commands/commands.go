// Package commands provides the command set of the graph interpreter. Every
// command operates on a graphline.Store and reports its outcome through the
// cli status protocol.
package commands

import (
	"github.com/graphline/graphline"
	"github.com/graphline/graphline/cli"
	"github.com/graphline/graphline/dataset"
)

// RegisterAll registers the full command set with the registry.
func RegisterAll(registry *cli.Registry, store graphline.Store) error {
	commands := []cli.Command{
		&Help{registry: registry},
		&Quit{registry: registry},
		&Stats{store: store},
		&Clear{store: store},
		&AddArcs{store: store},
		&RemoveArcs{store: store},
		&ReplaceSuccessors{store: store},
		&ReplacePredecessors{store: store},
		&ListSuccessors{store: store},
		&ListPredecessors{store: store},
		&ListRoots{store: store},
		&ListLeaves{store: store},
		&TraverseSuccessors{store: store},
		&TraversePredecessors{store: store},
		&FindPath{store: store},
	}
	for _, c := range commands {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// parseNode validates and parses a node ID argument.
func parseNode(arg string) (graphline.NodeID, bool) {
	if !dataset.IsValidNodeID(arg) {
		return 0, false
	}
	v, err := dataset.ParseUint(arg)
	if err != nil {
		return 0, false
	}
	return graphline.NodeID(v), true
}

// readArcs ingests an arc dataset (arity 2) from the command's input stream.
func readArcs(in *dataset.Reader) ([]graphline.Arc, error) {
	records, err := in.ReadDataset(2)
	if err != nil {
		return nil, err
	}
	arcs := make([]graphline.Arc, len(records))
	for i, r := range records {
		arcs[i] = graphline.Arc{Tail: graphline.NodeID(r[0]), Head: graphline.NodeID(r[1])}
	}
	return arcs, nil
}

// readNodes ingests a node dataset (arity 1) from the command's input stream.
func readNodes(in *dataset.Reader) ([]graphline.NodeID, error) {
	records, err := in.ReadDataset(1)
	if err != nil {
		return nil, err
	}
	nodes := make([]graphline.NodeID, len(records))
	for i, r := range records {
		nodes[i] = graphline.NodeID(r[0])
	}
	return nodes, nil
}
