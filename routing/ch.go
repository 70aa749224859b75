package routing

import (
	"math"

	"github.com/ttpr0/ch-router/graph"
	. "github.com/ttpr0/ch-router/util"
)

//*******************************************
// ch path
//*******************************************

// CHPath is a packed path, Edges hold edges and shortcuts in travel order
// with OtherID set to the node each ref leads to.
type CHPath struct {
	Start  int32
	End    int32
	Weight int32
	Edges  List[graph.EdgeRef]
}

// Nodes returns the packed node sequence of the path.
func (self CHPath) Nodes() List[int32] {
	nodes := NewList[int32](self.Edges.Length() + 1)
	nodes.Add(self.Start)
	for _, ref := range self.Edges {
		nodes.Add(ref.OtherID)
	}
	return nodes
}

//*******************************************
// bidirectional ch query
//*******************************************

type _FlagCH struct {
	fwd_dist      int32
	bwd_dist      int32
	fwd_prev      graph.EdgeRef
	bwd_prev      graph.EdgeRef
	fwd_prev_node int32
	bwd_prev_node int32
	fwd_visited   bool
	bwd_visited   bool
}

var _EMPTY_FLAG = _FlagCH{
	fwd_dist:      math.MaxInt32,
	bwd_dist:      math.MaxInt32,
	fwd_prev_node: -1,
	bwd_prev_node: -1,
}

// CHQuery keeps its search state between queries, it must not be shared
// between goroutines.
type CHQuery struct {
	graph    graph.ICHGraph
	explorer graph.IGraphExplorer
	flags    Array[_FlagCH]
	touched  List[int32]
	fwd_heap PriorityQueue[int32, int32]
	bwd_heap PriorityQueue[int32, int32]
}

func NewCHQuery(g graph.ICHGraph) *CHQuery {
	flags := NewArray[_FlagCH](g.NodeCount())
	for i := range flags {
		flags[i] = _EMPTY_FLAG
	}
	return &CHQuery{
		graph:    g,
		explorer: g.GetGraphExplorer(),
		flags:    flags,
		touched:  NewList[int32](100),
		fwd_heap: NewPriorityQueue[int32, int32](100),
		bwd_heap: NewPriorityQueue[int32, int32](100),
	}
}

func (self *CHQuery) _Reset() {
	for _, node := range self.touched {
		self.flags[node] = _EMPTY_FLAG
	}
	self.touched.Clear()
	self.fwd_heap.Clear()
	self.bwd_heap.Clear()
}

func (self *CHQuery) _Touch(node int32) *_FlagCH {
	flag := &self.flags[node]
	if flag.fwd_dist == math.MaxInt32 && flag.bwd_dist == math.MaxInt32 {
		self.touched.Add(node)
	}
	return flag
}

// CalcShortestPath runs an upward search from both ends and returns the
// packed path. ok is false if end is unreachable from start.
func (self *CHQuery) CalcShortestPath(start, end int32) (CHPath, bool) {
	self._Reset()
	if start < 0 || end < 0 || int(start) >= self.graph.NodeCount() || int(end) >= self.graph.NodeCount() {
		return CHPath{}, false
	}
	if start == end {
		return CHPath{Start: start, End: end, Edges: NewList[graph.EdgeRef](0)}, true
	}

	self._Touch(start).fwd_dist = 0
	self.fwd_heap.Enqueue(start, 0)
	self._Touch(end).bwd_dist = 0
	self.bwd_heap.Enqueue(end, 0)

	best := int32(math.MaxInt32)
	mid := int32(-1)
	for {
		fwd_active := self._CanContinue(self.fwd_heap, best)
		bwd_active := self._CanContinue(self.bwd_heap, best)
		if !fwd_active && !bwd_active {
			break
		}
		if fwd_active {
			if node, dist, ok := self._Step(graph.FORWARD); ok && dist < best {
				best = dist
				mid = node
			}
		}
		if bwd_active {
			if node, dist, ok := self._Step(graph.BACKWARD); ok && dist < best {
				best = dist
				mid = node
			}
		}
	}
	if mid == -1 {
		return CHPath{}, false
	}
	return self._BuildPath(start, end, mid, best), true
}

func (self *CHQuery) _CanContinue(heap PriorityQueue[int32, int32], best int32) bool {
	_, prio, ok := heap.Peek()
	return ok && prio < best
}

// _Step settles one node in the given direction. It returns the node and the
// length of the path through it if the other search has reached it.
func (self *CHQuery) _Step(dir graph.Direction) (int32, int32, bool) {
	heap := self.fwd_heap
	if dir == graph.BACKWARD {
		heap = self.bwd_heap
	}
	curr, _ := heap.Dequeue()
	curr_flag := &self.flags[curr]
	var curr_dist, other_dist int32
	if dir == graph.FORWARD {
		if curr_flag.fwd_visited {
			return 0, 0, false
		}
		curr_flag.fwd_visited = true
		curr_dist, other_dist = curr_flag.fwd_dist, curr_flag.bwd_dist
	} else {
		if curr_flag.bwd_visited {
			return 0, 0, false
		}
		curr_flag.bwd_visited = true
		curr_dist, other_dist = curr_flag.bwd_dist, curr_flag.fwd_dist
	}

	self.explorer.ForAdjacentEdges(curr, dir, graph.ADJACENT_UPWARDS, func(ref graph.EdgeRef) {
		other_id := ref.OtherID
		new_dist := curr_dist + self.explorer.GetEdgeWeight(ref)
		other_flag := self._Touch(other_id)
		if dir == graph.FORWARD {
			if other_flag.fwd_visited || new_dist >= other_flag.fwd_dist {
				return
			}
			other_flag.fwd_dist = new_dist
			other_flag.fwd_prev = ref
			other_flag.fwd_prev_node = curr
			self.fwd_heap.Enqueue(other_id, new_dist)
		} else {
			if other_flag.bwd_visited || new_dist >= other_flag.bwd_dist {
				return
			}
			other_flag.bwd_dist = new_dist
			other_flag.bwd_prev = ref
			other_flag.bwd_prev_node = curr
			self.bwd_heap.Enqueue(other_id, new_dist)
		}
	})

	if other_dist == math.MaxInt32 {
		return 0, 0, false
	}
	return curr, curr_dist + other_dist, true
}

func (self *CHQuery) _BuildPath(start, end, mid, weight int32) CHPath {
	fwd_part := NewList[graph.EdgeRef](10)
	curr := mid
	for curr != start {
		flag := self.flags[curr]
		fwd_part.Add(flag.fwd_prev)
		curr = flag.fwd_prev_node
	}

	edges := NewList[graph.EdgeRef](fwd_part.Length() + 10)
	for i := fwd_part.Length() - 1; i >= 0; i-- {
		edges.Add(fwd_part[i])
	}
	curr = mid
	for curr != end {
		flag := self.flags[curr]
		ref := flag.bwd_prev
		// backward refs point to their tail, the path needs the head
		ref.OtherID = flag.bwd_prev_node
		edges.Add(ref)
		curr = flag.bwd_prev_node
	}
	return CHPath{
		Start:  start,
		End:    end,
		Weight: weight,
		Edges:  edges,
	}
}
