package graph

//*******************************************
// enums
//*******************************************

type Direction byte

const (
	BACKWARD Direction = 0
	FORWARD  Direction = 1
)

type Adjacency byte

const (
	ADJACENT_EDGES     Adjacency = 0
	ADJACENT_SHORTCUTS Adjacency = 1
	ADJACENT_ALL       Adjacency = 2
	ADJACENT_UPWARDS   Adjacency = 4
	ADJACENT_DOWNWARDS Adjacency = 5
)

type WeightType byte

const (
	DEFAULT_WEIGHT WeightType = 0
	TRAFFIC_WEIGHT WeightType = 2
)

func (self WeightType) String() string {
	switch self {
	case DEFAULT_WEIGHT:
		return "default"
	case TRAFFIC_WEIGHT:
		return "traffic"
	default:
		panic("unknown weight type")
	}
}

//*******************************************
// road types
//*******************************************

type RoadType int8

const (
	MOTORWAY       RoadType = 1
	MOTORWAY_LINK  RoadType = 2
	TRUNK          RoadType = 3
	TRUNK_LINK     RoadType = 4
	PRIMARY        RoadType = 5
	PRIMARY_LINK   RoadType = 6
	SECONDARY      RoadType = 7
	SECONDARY_LINK RoadType = 8
	TERTIARY       RoadType = 9
	TERTIARY_LINK  RoadType = 10
	RESIDENTIAL    RoadType = 11
	LIVING_STREET  RoadType = 12
	UNCLASSIFIED   RoadType = 13
	ROAD           RoadType = 14
	TRACK          RoadType = 15
	SERVICE        RoadType = 16
)

// indexed by RoadType, 0 is the unknown type
var road_type_names = [...]string{
	"", "motorway", "motorway_link", "trunk", "trunk_link", "primary", "primary_link",
	"secondary", "secondary_link", "tertiary", "tertiary_link", "residential",
	"living_street", "unclassified", "road", "track", "service",
}

func (self RoadType) String() string {
	if self < 0 || int(self) >= len(road_type_names) {
		return ""
	}
	return road_type_names[self]
}

// RoadTypeFromString returns 0 for highway values that are not routable.
func RoadTypeFromString(typ string) RoadType {
	for i, name := range road_type_names {
		if i != 0 && name == typ {
			return RoadType(i)
		}
	}
	return 0
}
