package parser

import (
	"github.com/paulmach/osm"
	"github.com/ttpr0/ch-router/graph"
)

type DrivingDecoder struct {
}

func (self *DrivingDecoder) IsValidHighway(tags osm.Tags) bool {
	typ := tags.Find("highway")
	if typ == "" {
		return false
	}
	return graph.RoadTypeFromString(typ) != 0
}
func (self *DrivingDecoder) DecodeEdge(tags osm.Tags) EdgeAttribs {
	e := EdgeAttribs{}
	e.Type = graph.RoadTypeFromString(tags.Find("highway"))
	e.Maxspeed = byte(min(_GetORSTravelSpeed(e.Type, tags.Find("maxspeed"), tags.Find("tracktype"), tags.Find("surface")), 255))
	e.Oneway, e.Reversed = _IsOneway(tags.Find("oneway"), tags.Find("junction"), e.Type)
	return e
}
