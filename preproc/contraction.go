package preproc

import (
	"fmt"
	"math"

	"github.com/ttpr0/ch-router/graph"
	. "github.com/ttpr0/ch-router/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// preprocessing graph
//*******************************************

type _DynEdge struct {
	ref    graph.EdgeRef
	weight int32
}

type CHPreprocGraph struct {
	out_edges     Array[List[_DynEdge]]
	in_edges      Array[List[_DynEdge]]
	shortcuts     List[graph.Shortcut]
	node_levels   Array[int16]
	is_contracted Array[bool]
}

func TransformToCHPreprocGraph(base graph.IGraphBase, weight graph.IWeighting) *CHPreprocGraph {
	node_count := base.NodeCount()
	dg := CHPreprocGraph{
		out_edges:     NewArray[List[_DynEdge]](node_count),
		in_edges:      NewArray[List[_DynEdge]](node_count),
		shortcuts:     NewList[graph.Shortcut](base.EdgeCount()),
		node_levels:   NewArray[int16](node_count),
		is_contracted: NewArray[bool](node_count),
	}
	for i := 0; i < base.EdgeCount(); i++ {
		edge := base.GetEdge(int32(i))
		if edge.NodeA == edge.NodeB {
			continue
		}
		w := weight.GetEdgeWeight(int32(i))
		dg.out_edges[edge.NodeA].Add(_DynEdge{graph.CreateEdgeRef(int32(i), edge.NodeB), w})
		dg.in_edges[edge.NodeB].Add(_DynEdge{graph.CreateEdgeRef(int32(i), edge.NodeA), w})
	}
	return &dg
}

func (self *CHPreprocGraph) NodeCount() int {
	return self.node_levels.Length()
}

func (self *CHPreprocGraph) AddShortcut(from, to, via, weight int32, children [2]graph.EdgeRef) {
	if from == to {
		return
	}
	shc_id := int32(self.shortcuts.Length())
	self.shortcuts.Add(graph.NewShortcut(from, to, via, weight, children))
	self.out_edges[from].Add(_DynEdge{graph.CreateCHShortcutRef(shc_id, to), weight})
	self.in_edges[to].Add(_DynEdge{graph.CreateCHShortcutRef(shc_id, from), weight})
}

func TransformToCHData(dg *CHPreprocGraph) *graph.CH {
	return graph.NewCH(Array[graph.Shortcut](dg.shortcuts), dg.node_levels)
}

//*******************************************
// contraction
//*******************************************

const (
	// nodes settled per witness search before a shortcut is added anyway
	WITNESS_SETTLE_LIMIT = 500
)

// CalcContraction contracts all nodes in order of their edge difference,
// using lazy priority updates.
func CalcContraction(base graph.IGraphBase, weight graph.IWeighting) *graph.CH {
	dg := TransformToCHPreprocGraph(base, weight)
	node_count := dg.NodeCount()

	heap := NewPriorityQueue[int32, int32](node_count)
	search := _NewWitnessSearch(node_count)
	contracted_neighbours := NewArray[int32](node_count)
	for i := 0; i < node_count; i++ {
		prio := _ComputeNodePriority(dg, int32(i), search, contracted_neighbours)
		heap.Enqueue(int32(i), prio)
	}

	count := 0
	for {
		node, ok := heap.Dequeue()
		if !ok {
			break
		}
		if dg.is_contracted[node] {
			continue
		}
		prio := _ComputeNodePriority(dg, node, search, contracted_neighbours)
		if _, next_prio, ok := heap.Peek(); ok && prio > next_prio {
			heap.Enqueue(node, prio)
			continue
		}

		_ContractNode(dg, node, search, true)
		dg.is_contracted[node] = true
		level := dg.node_levels[node]
		if level == math.MaxInt16 {
			panic("node level overflow")
		}
		for _, neighbour := range _FindNeighbours(dg, node) {
			contracted_neighbours[neighbour] += 1
			if dg.node_levels[neighbour] <= level {
				dg.node_levels[neighbour] = level + 1
			}
		}

		count += 1
		if count%10000 == 0 {
			slog.Debug(fmt.Sprintf("contracted %v/%v nodes", count, node_count))
		}
	}
	slog.Info(fmt.Sprintf("contraction finished with %v shortcuts", dg.shortcuts.Length()))
	return TransformToCHData(dg)
}

func _ComputeNodePriority(dg *CHPreprocGraph, node int32, search *_WitnessSearch, contracted_neighbours Array[int32]) int32 {
	shortcut_count := _ContractNode(dg, node, search, false)
	edge_count := int32(0)
	for _, edge := range dg.in_edges[node] {
		if !dg.is_contracted[edge.ref.OtherID] {
			edge_count += 1
		}
	}
	for _, edge := range dg.out_edges[node] {
		if !dg.is_contracted[edge.ref.OtherID] {
			edge_count += 1
		}
	}
	return shortcut_count - edge_count + contracted_neighbours[node]
}

// _ContractNode returns the number of shortcuts needed to bypass node and
// adds them to the graph if add is set.
func _ContractNode(dg *CHPreprocGraph, node int32, search *_WitnessSearch, add bool) int32 {
	in_edges := _MinimalEdges(dg, dg.in_edges[node], node)
	out_edges := _MinimalEdges(dg, dg.out_edges[node], node)
	if in_edges.Length() == 0 || out_edges.Length() == 0 {
		return 0
	}
	max_out := int32(0)
	for _, out := range out_edges {
		if out.weight > max_out {
			max_out = out.weight
		}
	}

	count := int32(0)
	for _, in := range in_edges {
		from := in.ref.OtherID
		search.Run(dg, from, node, in.weight+max_out)
		for _, out := range out_edges {
			to := out.ref.OtherID
			if to == from {
				continue
			}
			weight := in.weight + out.weight
			if dist, ok := search.Distance(to); ok && dist <= weight {
				continue
			}
			count += 1
			if add {
				child_a := in.ref
				child_a.OtherID = node
				child_b := out.ref
				child_b.OtherID = to
				dg.AddShortcut(from, to, node, weight, [2]graph.EdgeRef{child_a, child_b})
			}
		}
	}
	return count
}

// _MinimalEdges keeps the lightest edge per uncontracted neighbour.
func _MinimalEdges(dg *CHPreprocGraph, edges List[_DynEdge], node int32) List[_DynEdge] {
	result := NewList[_DynEdge](edges.Length())
	for _, edge := range edges {
		other := edge.ref.OtherID
		if other == node || dg.is_contracted[other] {
			continue
		}
		found := false
		for i, e := range result {
			if e.ref.OtherID == other {
				found = true
				if edge.weight < e.weight {
					result[i] = edge
				}
				break
			}
		}
		if !found {
			result.Add(edge)
		}
	}
	return result
}

func _FindNeighbours(dg *CHPreprocGraph, node int32) List[int32] {
	neighbours := NewList[int32](dg.in_edges[node].Length() + dg.out_edges[node].Length())
	seen := NewDict[int32, bool](neighbours.Length())
	for _, edges := range [2]List[_DynEdge]{dg.in_edges[node], dg.out_edges[node]} {
		for _, edge := range edges {
			other := edge.ref.OtherID
			if dg.is_contracted[other] || seen.ContainsKey(other) {
				continue
			}
			seen[other] = true
			neighbours.Add(other)
		}
	}
	return neighbours
}

//*******************************************
// witness search
//*******************************************

type _WitnessSearch struct {
	heap    PriorityQueue[int32, int32]
	dist    Array[int32]
	touched List[int32]
}

func _NewWitnessSearch(node_count int) *_WitnessSearch {
	dist := NewArray[int32](node_count)
	for i := range dist {
		dist[i] = math.MaxInt32
	}
	return &_WitnessSearch{
		heap:    NewPriorityQueue[int32, int32](100),
		dist:    dist,
		touched: NewList[int32](100),
	}
}

// Run computes distances from start over uncontracted nodes, ignoring avoid.
// Nodes beyond max_weight or the settle limit stay unreached.
func (self *_WitnessSearch) Run(dg *CHPreprocGraph, start, avoid, max_weight int32) {
	for _, node := range self.touched {
		self.dist[node] = math.MaxInt32
	}
	self.touched.Clear()
	self.heap.Clear()

	self.dist[start] = 0
	self.touched.Add(start)
	self.heap.Enqueue(start, 0)
	settled := 0
	for settled < WITNESS_SETTLE_LIMIT {
		curr, ok := self.heap.Dequeue()
		if !ok {
			break
		}
		curr_dist := self.dist[curr]
		if curr_dist > max_weight {
			break
		}
		settled += 1
		for _, edge := range dg.out_edges[curr] {
			other := edge.ref.OtherID
			if other == avoid || dg.is_contracted[other] {
				continue
			}
			new_dist := curr_dist + edge.weight
			if new_dist < self.dist[other] {
				if self.dist[other] == math.MaxInt32 {
					self.touched.Add(other)
				}
				self.dist[other] = new_dist
				self.heap.Enqueue(other, new_dist)
			}
		}
	}
}

func (self *_WitnessSearch) Distance(node int32) (int32, bool) {
	dist := self.dist[node]
	return dist, dist != math.MaxInt32
}
