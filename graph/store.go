package graph

import (
	"fmt"
	"os"
	"time"

	. "github.com/ttpr0/ch-router/util"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

//*******************************************
// store / load ch-graph
//*******************************************

type GraphMeta struct {
	NodeCount     int       `json:"node_count"`
	EdgeCount     int       `json:"edge_count"`
	ShortcutCount int       `json:"shortcut_count"`
	Created       time.Time `json:"created"`
}

// Store writes all components of the graph to files prefixed with path.
func Store(g *CHGraph, path string) error {
	weight, ok := g.weight.(*DefaultWeighting)
	if !ok {
		return fmt.Errorf("only %v weightings can be stored, got %v", DEFAULT_WEIGHT, g.weight.Type())
	}

	var group errgroup.Group
	group.Go(func() error { return WriteArrayToFile(g.base.nodes, path+"-nodes") })
	group.Go(func() error { return WriteArrayToFile(g.base.edges, path+"-edges") })
	group.Go(func() error { return WriteArrayToFile(weight.edge_weights, path+"-weight") })
	group.Go(func() error { return WriteArrayToFile(g.ch.shortcuts, path+"-shortcut") })
	group.Go(func() error { return WriteArrayToFile(g.ch.node_levels, path+"-level") })
	if err := group.Wait(); err != nil {
		return err
	}

	meta := GraphMeta{
		NodeCount:     g.NodeCount(),
		EdgeCount:     g.EdgeCount(),
		ShortcutCount: g.ShortcutCount(),
		Created:       time.Now().UTC(),
	}
	return WriteJSONToFile(meta, path+"-meta")
}

// Load reads the graph components concurrently and validates them against
// the stored metadata.
func Load(path string) (*CHGraph, error) {
	meta, err := ReadJSONFromFile[GraphMeta](path + "-meta")
	if err != nil {
		return nil, err
	}

	var (
		nodes     Array[Node]
		edges     Array[Edge]
		weights   Array[int32]
		shortcuts Array[Shortcut]
		levels    Array[int16]
	)
	var group errgroup.Group
	group.Go(func() (err error) { nodes, err = ReadArrayFromFile[Node](path + "-nodes"); return })
	group.Go(func() (err error) { edges, err = ReadArrayFromFile[Edge](path + "-edges"); return })
	group.Go(func() (err error) { weights, err = ReadArrayFromFile[int32](path + "-weight"); return })
	group.Go(func() (err error) { shortcuts, err = ReadArrayFromFile[Shortcut](path + "-shortcut"); return })
	group.Go(func() (err error) { levels, err = ReadArrayFromFile[int16](path + "-level"); return })
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if nodes.Length() != meta.NodeCount || levels.Length() != meta.NodeCount {
		return nil, fmt.Errorf("graph %v: expected %v nodes, found %v nodes and %v levels", path, meta.NodeCount, nodes.Length(), levels.Length())
	}
	if edges.Length() != meta.EdgeCount || weights.Length() != meta.EdgeCount {
		return nil, fmt.Errorf("graph %v: expected %v edges, found %v edges and %v weights", path, meta.EdgeCount, edges.Length(), weights.Length())
	}
	if shortcuts.Length() != meta.ShortcutCount {
		return nil, fmt.Errorf("graph %v: expected %v shortcuts, found %v", path, meta.ShortcutCount, shortcuts.Length())
	}
	slog.Info(fmt.Sprintf("loaded graph with %v nodes, %v edges and %v shortcuts", meta.NodeCount, meta.EdgeCount, meta.ShortcutCount))

	base := NewGraphBase(nodes, edges)
	return BuildCHGraph(base, NewDefaultWeighting(weights), NewCH(shortcuts, levels)), nil
}

// Exists reports whether a stored graph is found at path.
func Exists(path string) bool {
	_, err := os.Stat(path + "-meta")
	return err == nil
}
