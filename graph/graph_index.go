package graph

import (
	"math"

	"github.com/ttpr0/ch-router/geo"
	. "github.com/ttpr0/ch-router/util"
)

// *******************************************
// graph index interface
// *******************************************

type IGraphIndex interface {
	GetClosestNode(point geo.Coord) (int32, bool)
}

//*******************************************
// grid index
//*******************************************

const (
	GRID_CELL_SIZE = 0.01
	// rings searched around the query cell before giving up
	GRID_MAX_RINGS = 5
)

type GridIndex struct {
	cells Dict[[2]int32, List[int32]]
	nodes Array[Node]
}

func NewGridIndex(nodes Array[Node]) *GridIndex {
	cells := NewDict[[2]int32, List[int32]](nodes.Length()/4 + 1)
	for i, node := range nodes {
		cell := _GetCell(node.Loc)
		list := cells[cell]
		list.Add(int32(i))
		cells[cell] = list
	}
	return &GridIndex{
		cells: cells,
		nodes: nodes,
	}
}

// GetClosestNode returns the node nearest to point within GRID_MAX_RINGS cells.
func (self *GridIndex) GetClosestNode(point geo.Coord) (int32, bool) {
	center := _GetCell(point)
	closest := int32(-1)
	min_dist := float32(math.MaxFloat32)
	hit_ring := int32(-1)
	for ring := int32(0); ring <= GRID_MAX_RINGS; ring++ {
		for x := center[0] - ring; x <= center[0]+ring; x++ {
			for y := center[1] - ring; y <= center[1]+ring; y++ {
				if x != center[0]-ring && x != center[0]+ring && y != center[1]-ring && y != center[1]+ring {
					continue
				}
				for _, node := range self.cells[[2]int32{x, y}] {
					dist := geo.HaversineDistance(point, self.nodes[node].Loc)
					if dist < min_dist {
						min_dist = dist
						closest = node
					}
				}
			}
		}
		// nodes in the next ring may still be closer than a hit in a corner
		// of this ring, so search one more ring after the first hit
		if closest != -1 {
			if hit_ring == -1 {
				hit_ring = ring
			} else if ring > hit_ring {
				break
			}
		}
	}
	return closest, closest != -1
}

func _GetCell(point geo.Coord) [2]int32 {
	return [2]int32{
		int32(math.Floor(float64(point[0]) / GRID_CELL_SIZE)),
		int32(math.Floor(float64(point[1]) / GRID_CELL_SIZE)),
	}
}
