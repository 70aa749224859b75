package graph

import (
	"github.com/ttpr0/ch-router/geo"
	. "github.com/ttpr0/ch-router/util"
)

//*******************************************
// ch-data
//*******************************************

type CH struct {
	shortcuts   Array[Shortcut]
	node_levels Array[int16]
}

func NewCH(shortcuts Array[Shortcut], node_levels Array[int16]) *CH {
	return &CH{
		shortcuts:   shortcuts,
		node_levels: node_levels,
	}
}

func (self *CH) GetNodeLevel(node int32) int16 {
	return self.node_levels[node]
}
func (self *CH) ShortcutCount() int {
	return self.shortcuts.Length()
}
func (self *CH) GetShortcut(shc_id int32) Shortcut {
	return self.shortcuts[shc_id]
}

//*******************************************
// ch-graph interface
//******************************************

type ICHGraph interface {
	// Base
	GetGraphExplorer() IGraphExplorer
	GetIndex() IGraphIndex
	NodeCount() int
	EdgeCount() int
	GetNode(node int32) Node
	GetEdge(edge int32) Edge
	GetNodeGeom(node int32) geo.Coord
	GetWeighting() IWeighting

	// CH Specific
	GetNodeLevel(node int32) int16
	ShortcutCount() int
	GetShortcut(shortcut int32) Shortcut
}

type IGraphExplorer interface {
	ForAdjacentEdges(node int32, direction Direction, typ Adjacency, callback func(EdgeRef))
	GetEdgeWeight(edge EdgeRef) int32
	GetOtherNode(edge EdgeRef, node int32) int32
}

//*******************************************
// ch-graph
//******************************************

type CHGraph struct {
	// Base Graph
	base   *GraphBase
	weight IWeighting
	index  IGraphIndex

	// Additional Storage
	ch          *CH
	ch_topology AdjacencyArray
}

// BuildCHGraph combines base edges and shortcuts into one topology. weight
// must be the weighting the hierarchy was contracted with.
func BuildCHGraph(base *GraphBase, weight IWeighting, ch *CH) *CHGraph {
	builder := NewAdjacencyBuilder(base.NodeCount(), base.EdgeCount()+ch.ShortcutCount())
	for i := 0; i < base.EdgeCount(); i++ {
		edge := base.GetEdge(int32(i))
		builder.AddEntry(edge.NodeA, edge.NodeB, int32(i), 0)
	}
	for i := 0; i < ch.ShortcutCount(); i++ {
		shc := ch.GetShortcut(int32(i))
		builder.AddEntry(shc.From, shc.To, int32(i), 100)
	}
	return &CHGraph{
		base:        base,
		weight:      weight,
		index:       NewGridIndex(base.nodes),
		ch:          ch,
		ch_topology: builder.Build(),
	}
}

func (self *CHGraph) GetGraphExplorer() IGraphExplorer {
	return &CHGraphExplorer{
		graph: self,
	}
}
func (self *CHGraph) GetIndex() IGraphIndex {
	return self.index
}
func (self *CHGraph) GetNodeLevel(node int32) int16 {
	return self.ch.GetNodeLevel(node)
}
func (self *CHGraph) NodeCount() int {
	return self.base.NodeCount()
}
func (self *CHGraph) EdgeCount() int {
	return self.base.EdgeCount()
}
func (self *CHGraph) ShortcutCount() int {
	return self.ch.ShortcutCount()
}
func (self *CHGraph) GetNode(node int32) Node {
	return self.base.GetNode(node)
}
func (self *CHGraph) GetEdge(edge int32) Edge {
	return self.base.GetEdge(edge)
}
func (self *CHGraph) GetNodeGeom(node int32) geo.Coord {
	return self.base.GetNode(node).Loc
}
func (self *CHGraph) GetShortcut(shortcut int32) Shortcut {
	return self.ch.GetShortcut(shortcut)
}
func (self *CHGraph) GetWeighting() IWeighting {
	return self.weight
}
func (self *CHGraph) GetBase() *GraphBase {
	return self.base
}
func (self *CHGraph) GetCH() *CH {
	return self.ch
}

//*******************************************
// ch-graph explorer
//******************************************

type CHGraphExplorer struct {
	graph *CHGraph
}

func (self *CHGraphExplorer) ForAdjacentEdges(node int32, direction Direction, typ Adjacency, callback func(EdgeRef)) {
	refs := self.graph.ch_topology.GetAdjacent(node, direction)
	switch typ {
	case ADJACENT_ALL:
		for _, ref := range refs {
			callback(ref)
		}
	case ADJACENT_EDGES:
		for _, ref := range refs {
			if ref.IsEdge() {
				callback(ref)
			}
		}
	case ADJACENT_SHORTCUTS:
		for _, ref := range refs {
			if ref.IsShortcut() {
				callback(ref)
			}
		}
	case ADJACENT_UPWARDS:
		this_level := self.graph.GetNodeLevel(node)
		for _, ref := range refs {
			if this_level >= self.graph.GetNodeLevel(ref.OtherID) {
				continue
			}
			callback(ref)
		}
	case ADJACENT_DOWNWARDS:
		this_level := self.graph.GetNodeLevel(node)
		for _, ref := range refs {
			if this_level <= self.graph.GetNodeLevel(ref.OtherID) {
				continue
			}
			callback(ref)
		}
	default:
		panic("Adjacency-type not implemented for this graph.")
	}
}
func (self *CHGraphExplorer) GetEdgeWeight(edge EdgeRef) int32 {
	if edge.IsCHShortcut() {
		return self.graph.ch.GetShortcut(edge.EdgeID).Weight
	}
	return self.graph.weight.GetEdgeWeight(edge.EdgeID)
}
func (self *CHGraphExplorer) GetOtherNode(edge EdgeRef, node int32) int32 {
	if edge.IsShortcut() {
		e := self.graph.GetShortcut(edge.EdgeID)
		if node == e.From {
			return e.To
		}
		if node == e.To {
			return e.From
		}
		return -1
	}
	e := self.graph.GetEdge(edge.EdgeID)
	if node == e.NodeA {
		return e.NodeB
	}
	if node == e.NodeB {
		return e.NodeA
	}
	return -1
}
