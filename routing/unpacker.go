package routing

import (
	"github.com/ttpr0/ch-router/graph"
)

//*******************************************
// shortcut unpacker
//*******************************************

// Unpacker expands shortcuts into original edges and costs them with the
// current live weighting. Shortcut durations are memoized in the cache.
type Unpacker struct {
	graph  graph.ICHGraph
	weight graph.IWeighting
	cache  *UnpackingCache

	hits   int
	misses int
}

func NewUnpacker(g graph.ICHGraph, cache *UnpackingCache) *Unpacker {
	return &Unpacker{
		graph:  g,
		weight: g.GetWeighting(),
		cache:  cache,
	}
}

// SetWeighting switches the weighting used for durations. The caller is
// responsible for clearing the cache when the weights change.
func (self *Unpacker) SetWeighting(weight graph.IWeighting) {
	self.weight = weight
}

func (self *Unpacker) GetCache() *UnpackingCache {
	return self.cache
}

// UnpackDuration returns the travel time of ref under the live weighting.
func (self *Unpacker) UnpackDuration(ref graph.EdgeRef) EdgeDuration {
	if !ref.IsShortcut() {
		return self.weight.GetEdgeWeight(ref.EdgeID)
	}
	shc := self.graph.GetShortcut(ref.EdgeID)
	key := MakeCacheKey(shc.From, shc.To, shc.Via)
	// a stored sentinel is indistinguishable from a miss and gets recomputed
	if duration := self.cache.GetDuration(key); duration != MAXIMAL_EDGE_DURATION {
		self.hits += 1
		return duration
	}
	self.misses += 1

	sum := int64(self.UnpackDuration(shc.Children[0])) + int64(self.UnpackDuration(shc.Children[1]))
	duration := EdgeDuration(min(sum, int64(MAXIMAL_EDGE_DURATION)))
	self.cache.AddEdge(key, duration)
	return duration
}

// UnpackEdges calls handler for every original edge of ref in travel order.
func (self *Unpacker) UnpackEdges(ref graph.EdgeRef, handler func(edge int32)) {
	if !ref.IsShortcut() {
		handler(ref.EdgeID)
		return
	}
	shc := self.graph.GetShortcut(ref.EdgeID)
	self.UnpackEdges(shc.Children[0], handler)
	self.UnpackEdges(shc.Children[1], handler)
}

// PathDuration sums the unpacked durations of all refs of the path.
func (self *Unpacker) PathDuration(path CHPath) EdgeDuration {
	sum := int64(0)
	for _, ref := range path.Edges {
		sum += int64(self.UnpackDuration(ref))
	}
	return EdgeDuration(min(sum, int64(MAXIMAL_EDGE_DURATION)))
}

// Stats returns cache hits and misses since the last ResetStats.
func (self *Unpacker) Stats() (int, int) {
	return self.hits, self.misses
}

func (self *Unpacker) ResetStats() {
	self.hits = 0
	self.misses = 0
}
