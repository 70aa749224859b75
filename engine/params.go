package engine

import (
	"github.com/ttpr0/ch-router/geo"
)

//*******************************************
// route parameters
//*******************************************

// RouteParameters holds a decoded query.
type RouteParameters struct {
	Service           string
	ZoomLevel         int16
	PrintInstructions bool
	Alternate         bool
	Geometry          bool
	Compression       bool
	Deprecated        bool
	UTurnDefault      bool
	Checksum          uint32
	NumResults        int16
	OutputFormat      string
	JSONPParameter    string
	Language          string

	// per location values share the index of Coordinates
	Coordinates []geo.Coord
	Hints       []string
	UTurns      []bool
	Timestamps  []uint32
}

func NewRouteParameters() *RouteParameters {
	return &RouteParameters{
		ZoomLevel:   18,
		Geometry:    true,
		Compression: true,
		NumResults:  1,
	}
}

// AddCoordinate appends a location given as (lat, lon).
func (self *RouteParameters) AddCoordinate(lat, lon float64) {
	self.Coordinates = append(self.Coordinates, geo.Coord{float32(lon), float32(lat)})
	self.Hints = append(self.Hints, "")
	self.UTurns = append(self.UTurns, self.UTurnDefault)
	self.Timestamps = append(self.Timestamps, 0)
}

// AddHint attaches a hint to the last location.
func (self *RouteParameters) AddHint(hint string) {
	if len(self.Hints) > 0 {
		self.Hints[len(self.Hints)-1] = hint
	}
}

// SetUTurn applies to the last location, or to all following ones if no
// location was given yet.
func (self *RouteParameters) SetUTurn(uturn bool) {
	if len(self.UTurns) == 0 {
		self.UTurnDefault = uturn
		return
	}
	self.UTurns[len(self.UTurns)-1] = uturn
}

func (self *RouteParameters) SetAllUTurns(uturn bool) {
	self.UTurnDefault = uturn
	for i := range self.UTurns {
		self.UTurns[i] = uturn
	}
}

func (self *RouteParameters) AddTimestamp(timestamp uint32) {
	if len(self.Timestamps) > 0 {
		self.Timestamps[len(self.Timestamps)-1] = timestamp
	}
}
