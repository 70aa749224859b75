package parser

import (
	"github.com/paulmach/osm"
	"github.com/ttpr0/ch-router/geo"
	"github.com/ttpr0/ch-router/graph"
	. "github.com/ttpr0/ch-router/util"
)

//*******************************************
// parser structs
//*******************************************

type EdgeAttribs struct {
	Type     graph.RoadType
	Maxspeed byte
	Oneway   bool
	// oneway against the way direction
	Reversed bool
}

//*******************************************
// graph builder
//*******************************************

// GraphBuilder collects nodes and edges from the three osm passes.
type GraphBuilder struct {
	decoder IOSMDecoder
	used    Dict[osm.NodeID, bool]
	index   Dict[osm.NodeID, int32]
	nodes   List[graph.Node]
	edges   List[graph.Edge]
}

func NewGraphBuilder(decoder IOSMDecoder) *GraphBuilder {
	return &GraphBuilder{
		decoder: decoder,
		used:    NewDict[osm.NodeID, bool](10000),
		index:   NewDict[osm.NodeID, int32](10000),
		nodes:   NewList[graph.Node](10000),
		edges:   NewList[graph.Edge](10000),
	}
}

// CollectWay marks the nodes of a routable way.
func (self *GraphBuilder) CollectWay(object osm.Object) {
	way, ok := object.(*osm.Way)
	if !ok || !self.decoder.IsValidHighway(way.Tags) {
		return
	}
	for _, nd := range way.Nodes {
		self.used.Set(nd.ID, true)
	}
}

func (self *GraphBuilder) AddNode(object osm.Object) {
	node, ok := object.(*osm.Node)
	if !ok || !self.used.ContainsKey(node.ID) || self.index.ContainsKey(node.ID) {
		return
	}
	self.index.Set(node.ID, int32(self.nodes.Length()))
	self.nodes.Add(graph.Node{Loc: geo.Coord{float32(node.Lon), float32(node.Lat)}})
}

// AddWay adds one edge per way segment and direction. Segments with a
// missing node are skipped.
func (self *GraphBuilder) AddWay(object osm.Object) {
	way, ok := object.(*osm.Way)
	if !ok || !self.decoder.IsValidHighway(way.Tags) {
		return
	}
	attr := self.decoder.DecodeEdge(way.Tags)
	for i := 1; i < len(way.Nodes); i++ {
		if !self.index.ContainsKey(way.Nodes[i-1].ID) || !self.index.ContainsKey(way.Nodes[i].ID) {
			continue
		}
		node_a := self.index.Get(way.Nodes[i-1].ID)
		node_b := self.index.Get(way.Nodes[i].ID)
		if node_a == node_b {
			continue
		}
		length := geo.HaversineDistance(self.nodes[node_a].Loc, self.nodes[node_b].Loc)
		if !attr.Oneway || !attr.Reversed {
			self.edges.Add(graph.Edge{NodeA: node_a, NodeB: node_b, Length: length, Maxspeed: attr.Maxspeed, Type: attr.Type})
		}
		if !attr.Oneway || attr.Reversed {
			self.edges.Add(graph.Edge{NodeA: node_b, NodeB: node_a, Length: length, Maxspeed: attr.Maxspeed, Type: attr.Type})
		}
	}
}

func (self *GraphBuilder) Build() *graph.GraphBase {
	return graph.NewGraphBase(Array[graph.Node](self.nodes), Array[graph.Edge](self.edges))
}
