package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/ch-router/engine"
	"github.com/ttpr0/ch-router/geo"
	"github.com/ttpr0/ch-router/graph"
	. "github.com/ttpr0/ch-router/util"
)

func newTestManager(t *testing.T) *RoutingManager {
	nodes := Array[graph.Node]{
		{Loc: geo.Coord{8.000, 50.000}},
		{Loc: geo.Coord{8.010, 50.000}},
		{Loc: geo.Coord{8.020, 50.000}},
	}
	edges := Array[graph.Edge]{
		{NodeA: 0, NodeB: 1, Length: 700, Maxspeed: 50},
		{NodeA: 1, NodeB: 0, Length: 700, Maxspeed: 50},
		{NodeA: 1, NodeB: 2, Length: 700, Maxspeed: 50},
		{NodeA: 2, NodeB: 1, Length: 700, Maxspeed: 50},
	}
	g := CreateCH(graph.NewGraphBase(nodes, edges))
	config, err := ParseConfig([]byte("engine:\n  workers: 2\n  cache-capacity: 128\n"))
	require.NoError(t, err)
	manager, err := NewRoutingManagerFromGraph(context.Background(), g, config, nil)
	require.NoError(t, err)
	manager.now = func() time.Time { return time.Unix(1522782542, 0) }
	return manager
}

func writeTraffic(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "traffic.csv")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func routeTime(t *testing.T, manager *RoutingManager) int {
	params := engine.NewRouteParameters()
	params.Service = "viaroute"
	params.AddCoordinate(50, 8)
	params.AddCoordinate(50, 8.02)
	status, result := manager.GetEngine().RunQuery(context.Background(), params)
	require.Equal(t, engine.STATUS_OK, status)
	return result["route_summary"].(engine.Object)["total_time"].(int)
}

func TestReloadTraffic(t *testing.T) {
	manager := newTestManager(t)
	manager.config.Traffic.File = writeTraffic(t, "edge;speed\n0;25\n99;30\n1;-5\n")
	ctx := context.Background()

	assert.Equal(t, 100, routeTime(t, manager))

	update, err := manager.ReloadTraffic(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, uint32(1522782542), update.Generation)
	assert.Equal(t, 1, update.UpdatedEdges)
	assert.Equal(t, 2, update.SkippedRows)
	assert.Equal(t, uint32(1522782542), manager.GetEngine().Generation())
	assert.Equal(t, 150, routeTime(t, manager))

	// same second, the generation still has to change
	update, err = manager.ReloadTraffic(ctx, writeTraffic(t, "edge;speed\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(1522782543), update.Generation)
	assert.Equal(t, 100, routeTime(t, manager))

	last := manager.LastUpdate()
	require.True(t, last.HasValue())
	assert.Equal(t, uint32(1522782543), last.Value.Generation)
}

func TestReloadTrafficErrors(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.ReloadTraffic(context.Background(), "")
	assert.Error(t, err)

	_, err = manager.ReloadTraffic(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
	assert.Equal(t, uint32(0), manager.GetEngine().Generation())
}

func TestReloadTrafficSkipsInvalidRows(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	update, err := manager.ReloadTraffic(ctx, writeTraffic(t, "edge;speed\nx;5\n4294967296;5\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, update.UpdatedEdges)
	assert.Equal(t, 2, update.SkippedRows)
	assert.Equal(t, 100, routeTime(t, manager))

	update, err = manager.ReloadTraffic(ctx, writeTraffic(t, "edge;speed\n0;abc\n-1;5\n2;25\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, update.UpdatedEdges)
	assert.Equal(t, 2, update.SkippedRows)
}

func TestReloadTrafficIgnoresCancelledCaller(t *testing.T) {
	manager := newTestManager(t)
	manager.config.Traffic.File = writeTraffic(t, "edge;speed\n0;25\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	update, err := manager.ReloadTraffic(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, update.UpdatedEdges)
	assert.Equal(t, 150, routeTime(t, manager))
}

func TestAdminEndpoints(t *testing.T) {
	manager := newTestManager(t)
	manager.config.Traffic.File = writeTraffic(t, "edge;speed\n2;25\n")
	app := http.NewServeMux()
	MapAdmin(app, manager)
	srv := httptest.NewServer(app)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/admin/reload", "application/json", nil)
	require.NoError(t, err)
	var reload ReloadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reload))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uint32(1522782542), reload.Generation)
	assert.Equal(t, 1, reload.UpdatedEdges)

	resp, err = http.Get(srv.URL + "/admin/status?verbose=true")
	require.NoError(t, err)
	var status StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	assert.Equal(t, uint32(1522782542), status.Generation)
	assert.Equal(t, 3, status.NodeCount)
	assert.Equal(t, 4, status.EdgeCount)
	assert.Equal(t, 1, status.UpdatedEdges)
	require.NotNil(t, status.Engine)
	assert.Equal(t, 128, status.Engine.CacheCapacity)

	resp, err = http.Post(srv.URL+"/admin/reload", "application/json", strings.NewReader(`{"file": "/does/not/exist.csv"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminReloadRestrictedToConfiguredFile(t *testing.T) {
	manager := newTestManager(t)
	configured := writeTraffic(t, "edge;speed\n0;25\n")
	manager.config.Traffic.File = configured
	other := writeTraffic(t, "edge;speed\n0;5\n2;5\n")
	app := http.NewServeMux()
	MapAdmin(app, manager)
	srv := httptest.NewServer(app)
	defer srv.Close()

	body, err := json.Marshal(ReloadRequest{File: other})
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/admin/reload", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, manager.LastUpdate().HasValue())
	assert.Equal(t, 100, routeTime(t, manager))

	body, err = json.Marshal(ReloadRequest{File: configured})
	require.NoError(t, err)
	resp, err = http.Post(srv.URL+"/admin/reload", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 150, routeTime(t, manager))
}

func TestAdminReloadWithoutConfiguredFile(t *testing.T) {
	manager := newTestManager(t)
	app := http.NewServeMux()
	MapAdmin(app, manager)
	srv := httptest.NewServer(app)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/admin/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
