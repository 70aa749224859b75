package main

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestParseConfigDefaults(t *testing.T) {
	config, err := ParseConfig([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, ":5000", config.Server.Address)
	assert.Equal(t, "./graphs/default/graph", config.Graph.Path)
	assert.Equal(t, runtime.GOMAXPROCS(0), config.Engine.Workers)
	assert.Equal(t, 1<<16, config.Engine.CacheCapacity)
	assert.Equal(t, 500, config.Engine.MaxLocations)
	assert.Equal(t, 100, config.Engine.MaxTableSize)
	assert.Equal(t, slog.LevelInfo, config.Logging.Level.Level())
	assert.Equal(t, 0, config.Traffic.ReloadInterval)
}

func TestParseConfig(t *testing.T) {
	data := `
server:
  address: ":8080"
  disable-access-logging: true
graph:
  path: ./graphs/test/graph
  osm: ./data/test.pbf
engine:
  workers: 2
  cache-capacity: 1024
traffic:
  file: ./data/traffic.csv
  reload-interval: 60
logging:
  level: debug
`
	config, err := ParseConfig([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.Server.Address)
	assert.True(t, config.Server.DisableAccessLogging)
	assert.Equal(t, "./data/test.pbf", config.Graph.OSM)
	assert.Equal(t, 2, config.Engine.Workers)
	assert.Equal(t, 1024, config.Engine.CacheCapacity)
	assert.Equal(t, 60, config.Traffic.ReloadInterval)
	assert.Equal(t, slog.LevelDebug, config.Logging.Level.Level())
	assert.Equal(t, "debug", config.Logging.Level.String())
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("logging:\n  level: verbose\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("engine:\n  cache-capacity: -1\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("server: [1, 2"))
	assert.Error(t, err)

	_, err = ReadConfig("./does-not-exist.yaml")
	assert.Error(t, err)
}
