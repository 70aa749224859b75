package graph

import (
	. "github.com/ttpr0/ch-router/util"
)

//*******************************************
// weighting interface
//*******************************************

// IWeighting returns edge durations in seconds.
type IWeighting interface {
	GetEdgeWeight(edge int32) int32

	Type() WeightType
	IsDynamic() bool
}

//*******************************************
// default weighting
//*******************************************

type DefaultWeighting struct {
	edge_weights Array[int32]
}

func NewDefaultWeighting(weights Array[int32]) *DefaultWeighting {
	return &DefaultWeighting{
		edge_weights: weights,
	}
}

func (self *DefaultWeighting) GetEdgeWeight(edge int32) int32 {
	return self.edge_weights[edge]
}
func (self *DefaultWeighting) Type() WeightType {
	return DEFAULT_WEIGHT
}
func (self *DefaultWeighting) IsDynamic() bool {
	return false
}
func (self *DefaultWeighting) EdgeCount() int {
	return self.edge_weights.Length()
}
func (self *DefaultWeighting) Weights() Array[int32] {
	return self.edge_weights
}

// BuildDefaultWeighting derives travel times from edge length and maxspeed.
func BuildDefaultWeighting(base IGraphBase) *DefaultWeighting {
	weights := NewArray[int32](base.EdgeCount())
	for i := 0; i < base.EdgeCount(); i++ {
		edge := base.GetEdge(int32(i))
		weights[i] = TravelTime(edge.Length, float32(edge.Maxspeed))
	}
	return &DefaultWeighting{
		edge_weights: weights,
	}
}

// TravelTime returns seconds needed for length meters at speed km/h, at least 1.
func TravelTime(length float32, speed float32) int32 {
	if speed <= 0 {
		speed = 1
	}
	w := length * 3.6 / speed
	if w < 1 {
		w = 1
	}
	return int32(w)
}

//*******************************************
// live traffic weighting
//*******************************************

// TrafficWeighting overlays measured speeds onto a base weighting. Edges
// without a measurement keep their base weight.
type TrafficWeighting struct {
	base      IWeighting
	durations Dict[int32, int32]
}

func NewTrafficWeighting(base IWeighting) *TrafficWeighting {
	return &TrafficWeighting{
		base:      base,
		durations: NewDict[int32, int32](100),
	}
}

func (self *TrafficWeighting) GetEdgeWeight(edge int32) int32 {
	if duration, ok := self.durations[edge]; ok {
		return duration
	}
	return self.base.GetEdgeWeight(edge)
}
func (self *TrafficWeighting) Type() WeightType {
	return TRAFFIC_WEIGHT
}
func (self *TrafficWeighting) IsDynamic() bool {
	return true
}

// SetEdgeSpeed records a measured speed in km/h for the edge.
func (self *TrafficWeighting) SetEdgeSpeed(base IGraphBase, edge int32, speed float32) {
	self.durations[edge] = TravelTime(base.GetEdge(edge).Length, speed)
}

// SetEdgeDuration overrides the duration of the edge in seconds.
func (self *TrafficWeighting) SetEdgeDuration(edge int32, duration int32) {
	self.durations[edge] = duration
}

func (self *TrafficWeighting) UpdatedEdgeCount() int {
	return self.durations.Length()
}
