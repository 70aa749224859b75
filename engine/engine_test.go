package engine

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/ch-router/geo"
	"github.com/ttpr0/ch-router/graph"
	"github.com/ttpr0/ch-router/routing"
	. "github.com/ttpr0/ch-router/util"
)

// three nodes on a line plus one isolated node, the middle node is
// contracted first
func buildEngineGraph() *graph.CHGraph {
	nodes := Array[graph.Node]{
		{Loc: geo.Coord{8.000, 50.000}},
		{Loc: geo.Coord{8.010, 50.000}},
		{Loc: geo.Coord{8.020, 50.000}},
		{Loc: geo.Coord{8.200, 50.000}},
	}
	edges := Array[graph.Edge]{
		{NodeA: 0, NodeB: 1, Length: 700, Maxspeed: 50, Type: graph.RESIDENTIAL},
		{NodeA: 1, NodeB: 2, Length: 700, Maxspeed: 50, Type: graph.RESIDENTIAL},
		{NodeA: 1, NodeB: 0, Length: 700, Maxspeed: 50, Type: graph.RESIDENTIAL},
		{NodeA: 2, NodeB: 1, Length: 700, Maxspeed: 50, Type: graph.RESIDENTIAL},
	}
	base := graph.NewGraphBase(nodes, edges)
	weight := graph.BuildDefaultWeighting(base)
	shortcuts := Array[graph.Shortcut]{
		graph.NewShortcut(0, 2, 1, 100, [2]graph.EdgeRef{graph.CreateEdgeRef(0, 1), graph.CreateEdgeRef(1, 2)}),
		graph.NewShortcut(2, 0, 1, 100, [2]graph.EdgeRef{graph.CreateEdgeRef(3, 1), graph.CreateEdgeRef(2, 0)}),
	}
	levels := Array[int16]{1, 0, 2, 0}
	return graph.BuildCHGraph(base, weight, graph.NewCH(shortcuts, levels))
}

func newTestEngine(t *testing.T, workers int) (*Engine, *graph.CHGraph) {
	g := buildEngineGraph()
	engine, err := NewEngine(g, nil, Options{Workers: workers, CacheCapacity: 64})
	require.NoError(t, err)
	return engine, g
}

func routeParams(service string, locs ...[2]float64) *RouteParameters {
	params := NewRouteParameters()
	params.Service = service
	for _, loc := range locs {
		params.AddCoordinate(loc[0], loc[1])
	}
	return params
}

func TestNewEngineRejectsInvalidOptions(t *testing.T) {
	g := buildEngineGraph()

	_, err := NewEngine(nil, nil, Options{Workers: 1, CacheCapacity: 8})
	assert.Error(t, err)
	_, err = NewEngine(g, nil, Options{Workers: 0, CacheCapacity: 8})
	assert.Error(t, err)
	_, err = NewEngine(g, nil, Options{Workers: 1, CacheCapacity: 0})
	assert.Error(t, err)
}

func TestViaRoute(t *testing.T) {
	engine, _ := newTestEngine(t, 2)

	status, result := engine.RunQuery(context.Background(), routeParams("viaroute", [2]float64{50, 8}, [2]float64{50, 8.02}))
	require.Equal(t, STATUS_OK, status)

	summary := result["route_summary"].(Object)
	assert.Equal(t, 100, summary["total_time"])
	assert.Equal(t, 1400, summary["total_distance"])
	assert.Equal(t, "residential", summary["start_point"])
	assert.Equal(t, []int{0, 2}, result["via_indices"])
	assert.Equal(t, [][2]float32{{50, 8}, {50, 8.02}}, result["via_points"])

	line := result["route_geometry"].(orb.LineString)
	require.Len(t, line, 3)
	assert.InDelta(t, 8.01, line[1][0], 1e-5)
}

func TestViaRouteStatuses(t *testing.T) {
	engine, _ := newTestEngine(t, 1)
	ctx := context.Background()

	status, result := engine.RunQuery(ctx, routeParams("viaroute", [2]float64{50, 8}))
	assert.Equal(t, STATUS_BAD_REQUEST, status)
	assert.Equal(t, STATUS_BAD_REQUEST, result["status"])

	status, _ = engine.RunQuery(ctx, routeParams("viaroute", [2]float64{50, 8}, [2]float64{100, 8}))
	assert.Equal(t, STATUS_BAD_REQUEST, status)

	status, result = engine.RunQuery(ctx, routeParams("viaroute", [2]float64{50, 8}, [2]float64{50, 8.2}))
	assert.Equal(t, STATUS_NO_ROUTE, status)
	assert.Equal(t, "Cannot find route between points", result["status_message"])

	status, _ = engine.RunQuery(ctx, routeParams("unknown", [2]float64{50, 8}))
	assert.Equal(t, STATUS_BAD_REQUEST, status)
}

func TestUpdateWeightingClearsCaches(t *testing.T) {
	engine, g := newTestEngine(t, 1)
	ctx := context.Background()
	params := routeParams("viaroute", [2]float64{50, 8}, [2]float64{50, 8.02})

	_, result := engine.RunQuery(ctx, params)
	assert.Equal(t, 100, result["route_summary"].(Object)["total_time"])

	traffic := graph.NewTrafficWeighting(g.GetWeighting())
	traffic.SetEdgeSpeed(g.GetBase(), 0, 25)
	engine.UpdateWeighting(traffic, 5)
	assert.Equal(t, uint32(5), engine.Generation())

	_, result = engine.RunQuery(ctx, params)
	assert.Equal(t, 150, result["route_summary"].(Object)["total_time"])

	qc, err := engine._Acquire(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), qc.unpacker.GetCache().Generation())
	engine._Release(qc)

	_, result = engine.RunQuery(ctx, routeParams("timestamp"))
	assert.Equal(t, "5", result["timestamp"])
}

func TestTable(t *testing.T) {
	engine, _ := newTestEngine(t, 2)

	status, result := engine.RunQuery(context.Background(), routeParams("table",
		[2]float64{50, 8}, [2]float64{50, 8.01}, [2]float64{50, 8.02}, [2]float64{50, 8.2}))
	require.Equal(t, STATUS_OK, status)

	table := result["distance_table"].([][]int32)
	require.Len(t, table, 4)
	assert.Equal(t, []int32{0, 50, 100, routing.MAXIMAL_EDGE_DURATION}, table[0])
	assert.Equal(t, []int32{100, 50, 0, routing.MAXIMAL_EDGE_DURATION}, table[2])
	assert.Equal(t, int32(0), table[3][3])

	status, _ = engine.RunQuery(context.Background(), routeParams("table", [2]float64{50, 8}))
	assert.Equal(t, STATUS_BAD_REQUEST, status)
}

func TestNearestAndLocate(t *testing.T) {
	engine, _ := newTestEngine(t, 1)
	ctx := context.Background()

	status, result := engine.RunQuery(ctx, routeParams("nearest", [2]float64{50.0001, 8.0099}))
	require.Equal(t, STATUS_OK, status)
	assert.Equal(t, [2]float32{50, 8.01}, result["mapped_coordinate"])
	assert.Equal(t, "residential", result["name"])

	status, result = engine.RunQuery(ctx, routeParams("locate", [2]float64{50.0001, 8.0199}))
	require.Equal(t, STATUS_OK, status)
	assert.Equal(t, [2]float32{50, 8.02}, result["mapped_coordinate"])
	assert.NotContains(t, result, "name")

	status, _ = engine.RunQuery(ctx, routeParams("locate"))
	assert.Equal(t, STATUS_BAD_REQUEST, status)
}

func TestAcquireHonoursContext(t *testing.T) {
	engine, _ := newTestEngine(t, 1)

	qc, err := engine._Acquire(context.Background())
	require.NoError(t, err)
	defer engine._Release(qc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	status, _ := engine.RunQuery(ctx, routeParams("viaroute", [2]float64{50, 8}, [2]float64{50, 8.02}))
	assert.Equal(t, STATUS_TIMEOUT, status)
}

func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := buildEngineGraph()
	engine, err := NewEngine(g, nil, Options{Workers: 1, CacheCapacity: 64, Metrics: NewMetrics(reg)})
	require.NoError(t, err)

	params := routeParams("viaroute", [2]float64{50, 8}, [2]float64{50, 8.02})
	engine.RunQuery(context.Background(), params)
	engine.RunQuery(context.Background(), params)
	engine.UpdateWeighting(g.GetWeighting(), 1)
	engine.RunQuery(context.Background(), params)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[family.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[family.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, float64(3), values["chrouter_engine_queries_total"])
	assert.Equal(t, float64(1), values["chrouter_unpacking_cache_clears_total"])
	assert.Equal(t, float64(1), values["chrouter_engine_weight_generation"])
	assert.Greater(t, values["chrouter_unpacking_cache_hits_total"], float64(0))
}

func TestEngineMetricsUnknownService(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := buildEngineGraph()
	engine, err := NewEngine(g, nil, Options{Workers: 1, CacheCapacity: 64, Metrics: NewMetrics(reg)})
	require.NoError(t, err)

	junk := []string{"junkab", "junkcd", "junkef", "junkgh", "junkij"}
	for _, service := range junk {
		status, _ := engine.RunQuery(context.Background(), routeParams(service, [2]float64{50, 8}))
		assert.Equal(t, STATUS_BAD_REQUEST, status)
	}
	engine.RunQuery(context.Background(), routeParams("timestamp"))

	families, err := reg.Gather()
	require.NoError(t, err)
	services := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "chrouter_engine_queries_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "service" {
					services[label.GetValue()] += metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Len(t, services, 2)
	assert.Equal(t, float64(len(junk)), services[UNKNOWN_SERVICE])
	assert.Equal(t, float64(1), services["timestamp"])
}
