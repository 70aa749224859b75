package graph

import (
	. "github.com/ttpr0/ch-router/util"
)

//*******************************************
// base graph
//*******************************************

type IGraphBase interface {
	NodeCount() int
	EdgeCount() int
	GetNode(node int32) Node
	GetEdge(edge int32) Edge
	GetAdjacency() *AdjacencyArray
}

type GraphBase struct {
	nodes    Array[Node]
	edges    Array[Edge]
	topology AdjacencyArray
}

func NewGraphBase(nodes Array[Node], edges Array[Edge]) *GraphBase {
	builder := NewAdjacencyBuilder(nodes.Length(), edges.Length())
	for i, edge := range edges {
		builder.AddEntry(edge.NodeA, edge.NodeB, int32(i), 0)
	}
	return &GraphBase{
		nodes:    nodes,
		edges:    edges,
		topology: builder.Build(),
	}
}

func (self *GraphBase) NodeCount() int {
	return self.nodes.Length()
}
func (self *GraphBase) EdgeCount() int {
	return self.edges.Length()
}
func (self *GraphBase) GetNode(node int32) Node {
	return self.nodes[node]
}
func (self *GraphBase) GetEdge(edge int32) Edge {
	return self.edges[edge]
}
func (self *GraphBase) GetAdjacency() *AdjacencyArray {
	return &self.topology
}
