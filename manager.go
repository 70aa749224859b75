package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ttpr0/ch-router/engine"
	"github.com/ttpr0/ch-router/graph"
	. "github.com/ttpr0/ch-router/util"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"
)

// TrafficRow is one line of the traffic csv.
type TrafficRow struct {
	Edge  int32   `csv:"edge"`
	Speed float32 `csv:"speed"`
}

type TrafficUpdate struct {
	Generation   uint32    `json:"generation"`
	UpdatedEdges int       `json:"updated_edges"`
	SkippedRows  int       `json:"skipped_rows"`
	Loaded       time.Time `json:"loaded"`
}

//**********************************************************
// routing manager
//**********************************************************

// NewRoutingManager loads (or builds) the graph and creates the engine.
func NewRoutingManager(ctx context.Context, config Config, metrics *engine.Metrics) (*RoutingManager, error) {
	g, err := LoadOrBuildGraph(ctx, config.Graph)
	if err != nil {
		return nil, err
	}
	return NewRoutingManagerFromGraph(ctx, g, config, metrics)
}

func NewRoutingManagerFromGraph(ctx context.Context, g *graph.CHGraph, config Config, metrics *engine.Metrics) (*RoutingManager, error) {
	e, err := engine.NewEngine(g, nil, engine.Options{
		Workers:       config.Engine.Workers,
		CacheCapacity: config.Engine.CacheCapacity,
		MaxLocations:  config.Engine.MaxLocations,
		MaxTableSize:  config.Engine.MaxTableSize,
		Metrics:       metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	manager := &RoutingManager{
		config: config,
		graph:  g,
		engine: e,
		now:    time.Now,
	}
	if config.Traffic.File != "" {
		if _, err := manager.ReloadTraffic(ctx, ""); err != nil {
			slog.Warn("initial traffic load failed: " + err.Error())
		}
	}
	return manager, nil
}

type RoutingManager struct {
	config Config
	graph  *graph.CHGraph
	engine *engine.Engine

	reload singleflight.Group
	now    func() time.Time

	mu         sync.Mutex
	generation uint32
	last       Optional[TrafficUpdate]
}

func (self *RoutingManager) GetEngine() *engine.Engine {
	return self.engine
}

func (self *RoutingManager) GetGraph() *graph.CHGraph {
	return self.graph
}

// LastUpdate returns the last applied traffic update.
func (self *RoutingManager) LastUpdate() Optional[TrafficUpdate] {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.last
}

// ReloadTraffic reads the traffic csv (the configured one if file is empty)
// and publishes it as new live weighting. Concurrent calls share one reload,
// which is not cancelled when the caller that started it goes away.
func (self *RoutingManager) ReloadTraffic(ctx context.Context, file string) (TrafficUpdate, error) {
	if file == "" {
		file = self.config.Traffic.File
	}
	if file == "" {
		return TrafficUpdate{}, errors.New("no traffic file configured")
	}
	load_ctx := context.WithoutCancel(ctx)
	res, err, shared := self.reload.Do(file, func() (any, error) {
		return self._LoadTraffic(load_ctx, file)
	})
	if err != nil {
		return TrafficUpdate{}, err
	}
	if shared {
		slog.Debug("traffic reload shared with a concurrent call")
	}
	return res.(TrafficUpdate), nil
}

func (self *RoutingManager) _LoadTraffic(ctx context.Context, file string) (TrafficUpdate, error) {
	rows, err := ReadCSVRowsFromFile[TrafficRow](file, ';')
	if err != nil {
		return TrafficUpdate{}, fmt.Errorf("failed to read traffic: %w", err)
	}
	base := self.graph.GetBase()
	traffic := graph.NewTrafficWeighting(self.graph.GetWeighting())
	skipped := 0
	for row, err := range rows {
		if err != nil {
			slog.Debug("skipping traffic row: " + err.Error())
			skipped += 1
			continue
		}
		if row.Edge < 0 || int(row.Edge) >= base.EdgeCount() || row.Speed <= 0 {
			skipped += 1
			continue
		}
		traffic.SetEdgeSpeed(base, row.Edge, row.Speed)
	}
	if err := ctx.Err(); err != nil {
		return TrafficUpdate{}, err
	}

	self.mu.Lock()
	defer self.mu.Unlock()
	generation := uint32(self.now().Unix())
	if generation <= self.generation {
		generation = self.generation + 1
	}
	self.generation = generation
	self.engine.UpdateWeighting(traffic, generation)

	update := TrafficUpdate{
		Generation:   generation,
		UpdatedEdges: traffic.UpdatedEdgeCount(),
		SkippedRows:  skipped,
		Loaded:       self.now(),
	}
	self.last = Some(update)
	slog.Info(fmt.Sprintf("loaded traffic from %v: %v edges updated, %v rows skipped", file, update.UpdatedEdges, skipped))
	return update, nil
}

// RunTrafficUpdates reloads the configured traffic file every interval until
// ctx is done.
func (self *RoutingManager) RunTrafficUpdates(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := self.ReloadTraffic(ctx, ""); err != nil {
				slog.Warn("traffic reload failed: " + err.Error())
			}
		}
	}
}
