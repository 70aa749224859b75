package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

// ReadConfig decodes the yaml config file and fills in defaults.
func ReadConfig(file string) (Config, error) {
	slog.Info("Reading config file " + file)
	data, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

type Config struct {
	Server  ServerOptions  `yaml:"server"`
	Graph   GraphOptions   `yaml:"graph"`
	Engine  EngineOptions  `yaml:"engine"`
	Traffic TrafficOptions `yaml:"traffic"`
	Logging struct {
		Level LogLevel `yaml:"level"`
	} `yaml:"logging"`
}

type ServerOptions struct {
	Address              string `yaml:"address"`
	DisableAccessLogging bool   `yaml:"disable-access-logging"`
}

type GraphOptions struct {
	// prefix of the stored graph components
	Path string `yaml:"path"`
	// osm pbf file used to build the graph
	OSM string `yaml:"osm"`
	// rebuild even if a stored graph exists
	Build bool `yaml:"build"`
}

type EngineOptions struct {
	Workers       int `yaml:"workers" json:"workers"`
	CacheCapacity int `yaml:"cache-capacity" json:"cache_capacity"`
	MaxLocations  int `yaml:"max-locations" json:"max_locations"`
	MaxTableSize  int `yaml:"max-table-size" json:"max_table_size"`
}

type TrafficOptions struct {
	// csv file with edge;speed rows
	File string `yaml:"file"`
	// seconds between reloads, 0 disables periodic reloads
	ReloadInterval int `yaml:"reload-interval"`
}

func (self *Config) SetDefaults() {
	if self.Server.Address == "" {
		self.Server.Address = ":5000"
	}
	if self.Graph.Path == "" {
		self.Graph.Path = "./graphs/default/graph"
	}
	if self.Engine.Workers == 0 {
		self.Engine.Workers = runtime.GOMAXPROCS(0)
	}
	if self.Engine.CacheCapacity == 0 {
		self.Engine.CacheCapacity = 1 << 16
	}
	if self.Engine.MaxLocations == 0 {
		self.Engine.MaxLocations = 500
	}
	if self.Engine.MaxTableSize == 0 {
		self.Engine.MaxTableSize = 100
	}
}

func (self *Config) Validate() error {
	if self.Engine.Workers < 0 {
		return errors.New("engine.workers must be positive")
	}
	if self.Engine.CacheCapacity < 0 {
		return errors.New("engine.cache-capacity must be positive")
	}
	if self.Traffic.ReloadInterval < 0 {
		return errors.New("traffic.reload-interval must not be negative")
	}
	return nil
}

//**********************************************************
// enums
//**********************************************************

type LogLevel slog.Level

func (self LogLevel) Level() slog.Level {
	return slog.Level(self)
}
func (self LogLevel) String() string {
	return strings.ToLower(slog.Level(self).String())
}
func (self LogLevel) MarshalYAML() (any, error) {
	return self.String(), nil
}
func (self *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	level, err := LogLevelFromString(value.Value)
	if err != nil {
		return err
	}
	*self = level
	return nil
}

func LogLevelFromString(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevel(slog.LevelDebug), nil
	case "info", "":
		return LogLevel(slog.LevelInfo), nil
	case "warn", "warning":
		return LogLevel(slog.LevelWarn), nil
	case "error":
		return LogLevel(slog.LevelError), nil
	default:
		return LogLevel(slog.LevelInfo), errors.New("unknown log level " + s)
	}
}
