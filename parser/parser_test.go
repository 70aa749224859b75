package parser

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/ch-router/graph"
)

func way(id osm.WayID, tags osm.Tags, nodes ...osm.NodeID) *osm.Way {
	w := &osm.Way{ID: id, Tags: tags}
	for _, node := range nodes {
		w.Nodes = append(w.Nodes, osm.WayNode{ID: node})
	}
	return w
}

func TestDrivingDecoder(t *testing.T) {
	decoder := &DrivingDecoder{}

	assert.True(t, decoder.IsValidHighway(osm.Tags{{Key: "highway", Value: "residential"}}))
	assert.False(t, decoder.IsValidHighway(osm.Tags{{Key: "highway", Value: "footway"}}))
	assert.False(t, decoder.IsValidHighway(osm.Tags{{Key: "name", Value: "Hauptstraße"}}))

	attr := decoder.DecodeEdge(osm.Tags{{Key: "highway", Value: "motorway"}})
	assert.Equal(t, graph.MOTORWAY, attr.Type)
	assert.Equal(t, byte(100), attr.Maxspeed)
	assert.True(t, attr.Oneway)

	attr = decoder.DecodeEdge(osm.Tags{{Key: "highway", Value: "primary"}, {Key: "maxspeed", Value: "70"}, {Key: "surface", Value: "cobblestone"}})
	assert.Equal(t, byte(20), attr.Maxspeed)
	assert.False(t, attr.Oneway)

	attr = decoder.DecodeEdge(osm.Tags{{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "-1"}})
	assert.True(t, attr.Oneway)
	assert.True(t, attr.Reversed)

	attr = decoder.DecodeEdge(osm.Tags{{Key: "highway", Value: "living_street"}, {Key: "maxspeed", Value: "walk"}})
	assert.Equal(t, byte(9), attr.Maxspeed)

	attr = decoder.DecodeEdge(osm.Tags{{Key: "highway", Value: "tertiary"}, {Key: "junction", Value: "roundabout"}})
	assert.True(t, attr.Oneway)
	assert.False(t, attr.Reversed)
}

func TestGraphBuilder(t *testing.T) {
	builder := NewGraphBuilder(&DrivingDecoder{})
	residential := osm.Tags{{Key: "highway", Value: "residential"}}
	oneway := osm.Tags{{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "yes"}}
	ways := []*osm.Way{
		way(1, residential, 10, 11, 12),
		way(2, oneway, 12, 13),
		way(3, osm.Tags{{Key: "highway", Value: "footway"}}, 13, 14),
		// references a node missing from the extract
		way(4, residential, 13, 99),
	}
	nodes := []*osm.Node{
		{ID: 10, Lat: 50.000, Lon: 8.000},
		{ID: 11, Lat: 50.000, Lon: 8.010},
		{ID: 12, Lat: 50.000, Lon: 8.020},
		{ID: 13, Lat: 50.010, Lon: 8.020},
		{ID: 14, Lat: 50.020, Lon: 8.020},
	}
	for _, w := range ways {
		builder.CollectWay(w)
	}
	for _, n := range nodes {
		builder.AddNode(n)
	}
	for _, w := range ways {
		builder.AddWay(w)
	}
	base := builder.Build()

	// node 14 is only used by the footway
	require.Equal(t, 4, base.NodeCount())
	require.Equal(t, 5, base.EdgeCount())

	first := base.GetEdge(0)
	assert.Equal(t, int32(0), first.NodeA)
	assert.Equal(t, int32(1), first.NodeB)
	assert.Equal(t, graph.RESIDENTIAL, first.Type)
	assert.InDelta(t, 715, first.Length, 5)

	last := base.GetEdge(4)
	assert.Equal(t, int32(2), last.NodeA)
	assert.Equal(t, int32(3), last.NodeB)
	assert.InDelta(t, 1112, last.Length, 5)
}
