package geo

import (
	"github.com/paulmach/orb"
	orb_geo "github.com/paulmach/orb/geo"
)

//*******************************************
// coordinates
//*******************************************

// Coord is a (lon, lat) pair in degrees.
type Coord [2]float32

func (self Coord) Lon() float32 {
	return self[0]
}

func (self Coord) Lat() float32 {
	return self[1]
}

func (self Coord) Point() orb.Point {
	return orb.Point{float64(self[0]), float64(self[1])}
}

func (self Coord) IsValid() bool {
	return self[0] >= -180 && self[0] <= 180 && self[1] >= -90 && self[1] <= 90
}

func FromPoint(point orb.Point) Coord {
	return Coord{float32(point[0]), float32(point[1])}
}

type CoordArray []Coord

func (self CoordArray) LineString() orb.LineString {
	line := make(orb.LineString, len(self))
	for i, c := range self {
		line[i] = c.Point()
	}
	return line
}

//*******************************************
// distances
//*******************************************

// HaversineDistance returns the great-circle distance in meters.
func HaversineDistance(a, b Coord) float32 {
	return float32(orb_geo.DistanceHaversine(a.Point(), b.Point()))
}

// LineLength returns the length of the line in meters.
func LineLength(line CoordArray) float32 {
	return float32(orb_geo.LengthHaversine(line.LineString()))
}
