package graph

import (
	. "github.com/ttpr0/ch-router/util"
)

//*******************************************
// adjacency array
//*******************************************

// AdjacencyArray stores forward and backward adjacency in CSR layout.
// The refs of node n are refs[first[n]:first[n+1]].
type AdjacencyArray struct {
	fwd_first Array[int32]
	fwd_refs  Array[EdgeRef]
	bwd_first Array[int32]
	bwd_refs  Array[EdgeRef]
}

// GetAdjacent returns outgoing (FORWARD) or incoming (BACKWARD) refs of node.
// OtherID is the node on the other end of the ref.
func (self *AdjacencyArray) GetAdjacent(node int32, dir Direction) []EdgeRef {
	if dir == FORWARD {
		return self.fwd_refs[self.fwd_first[node]:self.fwd_first[node+1]]
	}
	return self.bwd_refs[self.bwd_first[node]:self.bwd_first[node+1]]
}

func (self *AdjacencyArray) NodeCount() int {
	return self.fwd_first.Length() - 1
}

type AdjacencyBuilder struct {
	node_count int
	entries    List[Triple[int32, int32, EdgeRef]]
}

func NewAdjacencyBuilder(node_count int, capacity int) *AdjacencyBuilder {
	return &AdjacencyBuilder{
		node_count: node_count,
		entries:    NewList[Triple[int32, int32, EdgeRef]](capacity),
	}
}

// AddEntry registers a directed connection from -> to for the given edge or
// shortcut id.
func (self *AdjacencyBuilder) AddEntry(from, to, id int32, typ byte) {
	self.entries.Add(MakeTriple(from, to, EdgeRef{EdgeID: id, Type: typ}))
}

func (self *AdjacencyBuilder) Build() AdjacencyArray {
	fwd_first := NewArray[int32](self.node_count + 1)
	bwd_first := NewArray[int32](self.node_count + 1)
	for _, entry := range self.entries {
		fwd_first[entry.A+1] += 1
		bwd_first[entry.B+1] += 1
	}
	for i := 1; i <= self.node_count; i++ {
		fwd_first[i] += fwd_first[i-1]
		bwd_first[i] += bwd_first[i-1]
	}

	fwd_refs := NewArray[EdgeRef](self.entries.Length())
	bwd_refs := NewArray[EdgeRef](self.entries.Length())
	fwd_pos := NewArray[int32](self.node_count)
	bwd_pos := NewArray[int32](self.node_count)
	copy(fwd_pos, fwd_first[:self.node_count])
	copy(bwd_pos, bwd_first[:self.node_count])
	for _, entry := range self.entries {
		from, to, ref := entry.A, entry.B, entry.C

		fwd := ref
		fwd.OtherID = to
		fwd_refs[fwd_pos[from]] = fwd
		fwd_pos[from] += 1

		bwd := ref
		bwd.OtherID = from
		bwd_refs[bwd_pos[to]] = bwd
		bwd_pos[to] += 1
	}

	return AdjacencyArray{
		fwd_first: fwd_first,
		fwd_refs:  fwd_refs,
		bwd_first: bwd_first,
		bwd_refs:  bwd_refs,
	}
}
