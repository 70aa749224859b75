package routing

import (
	"math"
)

//*******************************************
// unpacking cache
//*******************************************

type NodeID = int32

type EdgeDuration = int32

// MAXIMAL_EDGE_DURATION marks an unknown duration and is returned on every
// cache miss.
const MAXIMAL_EDGE_DURATION EdgeDuration = math.MaxInt32

// CacheKey identifies the unpacking of the sub-path From -> Via -> To.
type CacheKey struct {
	From NodeID
	To   NodeID
	Via  NodeID
}

func MakeCacheKey(from, to, via NodeID) CacheKey {
	return CacheKey{From: from, To: to, Via: via}
}

type _CacheSlot struct {
	key      CacheKey
	duration EdgeDuration
	occupied bool
}

// UnpackingCache is a direct-mapped table of shortcut durations. Every key
// hashes to exactly one slot and a write overwrites whatever the slot held,
// so a key may vanish without notice; callers recompute on a miss.
//
// The cache has no internal locking. Each query context owns its own
// instance.
type UnpackingCache struct {
	slots      []_CacheSlot
	generation uint32
}

// NewUnpackingCache allocates capacity empty slots. It panics if capacity is
// not positive.
func NewUnpackingCache(capacity int, generation uint32) *UnpackingCache {
	if capacity <= 0 {
		panic("unpacking cache capacity must be positive")
	}
	return &UnpackingCache{
		slots:      make([]_CacheSlot, capacity),
		generation: generation,
	}
}

// AddEdge stores duration for key, evicting the previous occupant of its slot.
func (self *UnpackingCache) AddEdge(key CacheKey, duration EdgeDuration) {
	slot := &self.slots[self._Bucket(key)]
	slot.key = key
	slot.duration = duration
	slot.occupied = true
}

func (self *UnpackingCache) IsEdgeInCache(key CacheKey) bool {
	_, ok := self._Lookup(key)
	return ok
}

// GetDuration returns the stored duration or MAXIMAL_EDGE_DURATION on a miss.
func (self *UnpackingCache) GetDuration(key CacheKey) EdgeDuration {
	if slot, ok := self._Lookup(key); ok {
		return slot.duration
	}
	return MAXIMAL_EDGE_DURATION
}

// Clear empties all slots and records the generation of the weights the
// next entries will be computed from.
func (self *UnpackingCache) Clear(generation uint32) {
	clear(self.slots)
	self.generation = generation
}

func (self *UnpackingCache) Generation() uint32 {
	return self.generation
}

func (self *UnpackingCache) Capacity() int {
	return len(self.slots)
}

func (self *UnpackingCache) _Lookup(key CacheKey) (*_CacheSlot, bool) {
	slot := &self.slots[self._Bucket(key)]
	if !slot.occupied || slot.key != key {
		return nil, false
	}
	return slot, true
}

const (
	fnv_offset_32 = 2166136261
	fnv_prime_32  = 16777619
)

// _Bucket hashes the little-endian bytes of the key with FNV-1a.
func (self *UnpackingCache) _Bucket(key CacheKey) int {
	h := uint32(fnv_offset_32)
	for _, v := range [3]uint32{uint32(key.From), uint32(key.To), uint32(key.Via)} {
		for i := 0; i < 4; i++ {
			h ^= v & 0xff
			h *= fnv_prime_32
			v >>= 8
		}
	}
	return int(h % uint32(len(self.slots)))
}
