package graph

import (
	"github.com/ttpr0/ch-router/geo"
)

//*******************************************
// graph structs
//*******************************************

type Node struct {
	Loc geo.Coord
}

// Edge is directed from NodeA to NodeB.
type Edge struct {
	NodeA    int32
	NodeB    int32
	Length   float32
	Maxspeed byte
	Type     RoadType
}

//*******************************************
// edgeref struct
//*******************************************

type EdgeRef struct {
	EdgeID  int32
	Type    byte
	OtherID int32
}

func (self EdgeRef) IsEdge() bool {
	return self.Type < 100
}
func (self EdgeRef) IsShortcut() bool {
	return self.Type >= 100
}
func (self EdgeRef) IsCHShortcut() bool {
	return self.Type == 100
}

func CreateEdgeRef(edge int32, other int32) EdgeRef {
	return EdgeRef{
		EdgeID:  edge,
		Type:    0,
		OtherID: other,
	}
}
func CreateCHShortcutRef(shortcut int32, other int32) EdgeRef {
	return EdgeRef{
		EdgeID:  shortcut,
		Type:    100,
		OtherID: other,
	}
}

//*******************************************
// shortcut struct
//*******************************************

// Shortcut replaces the path From -> Via -> To. Children[0] leads from From
// to Via, Children[1] from Via to To; each is an edge or another shortcut.
type Shortcut struct {
	From     int32
	To       int32
	Via      int32
	Weight   int32
	Children [2]EdgeRef
}

func NewShortcut(from, to, via, weight int32, children [2]EdgeRef) Shortcut {
	return Shortcut{
		From:     from,
		To:       to,
		Via:      via,
		Weight:   weight,
		Children: children,
	}
}
