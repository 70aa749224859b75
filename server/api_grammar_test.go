package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/ch-router/geo"
)

func TestDecodeURI(t *testing.T) {
	assert.Equal(t, "/viaroute?loc=52.5,13.4", DecodeURI("/viaroute?loc=52.5%2C13.4"))
	assert.Equal(t, "/a b/", DecodeURI("%2Fa%20b%2f"))
	assert.Equal(t, "/x%zz", DecodeURI("/x%zz"))
	assert.Equal(t, "/x%4", DecodeURI("/x%4"))
	assert.Equal(t, "", DecodeURI(""))
}

func TestParseQueryFull(t *testing.T) {
	params, _, ok := ParseQuery("/viaroute?loc=52.5,13.4&hint=ab_c.1&loc=52.6,13.5&z=14&output=json" +
		"&jsonp=cb%5B0%5D&checksum=42&instructions=true&geometry=false&compression=false&alt=true" +
		"&u=true&t=1522782542&hl=de&geomformat=cmp&num_results=3")
	require.True(t, ok)

	assert.Equal(t, "viaroute", params.Service)
	assert.Equal(t, []geo.Coord{{13.4, 52.5}, {13.5, 52.6}}, params.Coordinates)
	assert.Equal(t, []string{"ab_c.1", ""}, params.Hints)
	assert.Equal(t, int16(14), params.ZoomLevel)
	assert.Equal(t, "json", params.OutputFormat)
	assert.Equal(t, "cb%5B0%5D", params.JSONPParameter)
	assert.Equal(t, uint32(42), params.Checksum)
	assert.True(t, params.PrintInstructions)
	assert.False(t, params.Geometry)
	assert.False(t, params.Compression)
	assert.True(t, params.Alternate)
	assert.Equal(t, []bool{false, true}, params.UTurns)
	assert.Equal(t, []uint32{0, 1522782542}, params.Timestamps)
	assert.Equal(t, "de", params.Language)
	assert.True(t, params.Deprecated)
	assert.Equal(t, int16(3), params.NumResults)
}

func TestParseQueryDefaults(t *testing.T) {
	params, _, ok := ParseQuery("/timestamp")
	require.True(t, ok)
	assert.Equal(t, "timestamp", params.Service)
	assert.Equal(t, int16(18), params.ZoomLevel)
	assert.True(t, params.Geometry)
	assert.Empty(t, params.Coordinates)

	params, _, ok = ParseQuery("/viaroute?loc=1,2?loc=3,4&zoom=-3")
	require.True(t, ok)
	assert.Len(t, params.Coordinates, 2)
	assert.Equal(t, int16(-3), params.ZoomLevel)
}

func TestParseQueryUTurns(t *testing.T) {
	params, _, ok := ParseQuery("/viaroute?u=true&loc=1,2&loc=3,4&u=false&uturns=true")
	require.True(t, ok)
	assert.True(t, params.UTurnDefault)
	assert.Equal(t, []bool{true, true}, params.UTurns)

	params, _, ok = ParseQuery("/viaroute?u=true&loc=1,2&loc=3,4&u=false")
	require.True(t, ok)
	assert.Equal(t, []bool{true, false}, params.UTurns)
}

func TestParseQueryFailureOffset(t *testing.T) {
	cases := []struct {
		query  string
		offset int
	}{
		{"", 0},
		{"viaroute", 0},
		{"/", 0},
		{"/viaroute?", 9},
		{"/viaroute?loc=abc", 9},
		{"/viaroute?loc=52.5,13.4&foo=1", 23},
		{"/viaroute?loc=52.5,13.4&loc=1", 23},
		{"/viaroute?z=99999", 9},
		{"/viaroute?geometry=trueX", 23},
		{"/via-route", 4},
		{"/viaroute?checksum=-1", 9},
		{"/viaroute?jsonp=a%zz", 17},
	}
	for _, c := range cases {
		params, offset, ok := ParseQuery(c.query)
		assert.False(t, ok, c.query)
		assert.Nil(t, params, c.query)
		assert.Equal(t, c.offset, offset, c.query)
	}
}
