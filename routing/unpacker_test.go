package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/ch-router/graph"
)

// longestShortcut returns the shortcut with the most original edges.
func longestShortcut(g *graph.CHGraph, unpacker *Unpacker) graph.EdgeRef {
	best := graph.CreateCHShortcutRef(0, g.GetShortcut(0).To)
	best_count := 0
	for i := 0; i < g.ShortcutCount(); i++ {
		ref := graph.CreateCHShortcutRef(int32(i), g.GetShortcut(int32(i)).To)
		count := 0
		unpacker.UnpackEdges(ref, func(int32) { count++ })
		if count > best_count {
			best, best_count = ref, count
		}
	}
	return best
}

func TestUnpackerCachesShortcuts(t *testing.T) {
	g := buildTestGraph(6)
	require.Greater(t, g.ShortcutCount(), 0)
	unpacker := NewUnpacker(g, NewUnpackingCache(4096, 1))
	ref := longestShortcut(g, unpacker)

	first := unpacker.UnpackDuration(ref)
	hits, misses := unpacker.Stats()
	assert.Equal(t, 0, hits)
	assert.Greater(t, misses, 0)
	assert.Equal(t, g.GetShortcut(ref.EdgeID).Weight, first)

	unpacker.ResetStats()
	second := unpacker.UnpackDuration(ref)
	hits, misses = unpacker.Stats()
	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 0, misses)

	shc := g.GetShortcut(ref.EdgeID)
	assert.True(t, unpacker.GetCache().IsEdgeInCache(MakeCacheKey(shc.From, shc.To, shc.Via)))
}

func TestUnpackerLiveWeights(t *testing.T) {
	g := buildTestGraph(6)
	cache := NewUnpackingCache(4096, 1)
	unpacker := NewUnpacker(g, cache)
	ref := longestShortcut(g, unpacker)

	before := unpacker.UnpackDuration(ref)

	// slow down every edge of the shortcut by 10 seconds
	traffic := graph.NewTrafficWeighting(g.GetWeighting())
	count := int32(0)
	unpacker.UnpackEdges(ref, func(edge int32) {
		traffic.SetEdgeDuration(edge, g.GetWeighting().GetEdgeWeight(edge)+10)
		count++
	})
	unpacker.SetWeighting(traffic)

	// stale until the owner clears the cache
	assert.Equal(t, before, unpacker.UnpackDuration(ref))

	cache.Clear(2)
	assert.Equal(t, before+10*count, unpacker.UnpackDuration(ref))
}

func TestUnpackerSingleSlotCache(t *testing.T) {
	g := buildTestGraph(5)
	single := NewUnpacker(g, NewUnpackingCache(1, 1))
	large := NewUnpacker(g, NewUnpackingCache(4096, 1))

	// collisions only cost time, never correctness
	for i := 0; i < g.ShortcutCount(); i++ {
		ref := graph.CreateCHShortcutRef(int32(i), g.GetShortcut(int32(i)).To)
		assert.Equal(t, large.UnpackDuration(ref), single.UnpackDuration(ref))
		assert.Equal(t, g.GetShortcut(int32(i)).Weight, single.UnpackDuration(ref))
	}
}
