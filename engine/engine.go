package engine

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"sync/atomic"

	"github.com/ttpr0/ch-router/graph"
	"github.com/ttpr0/ch-router/routing"
	"golang.org/x/exp/slog"
)

const (
	STATUS_OK          = 200
	STATUS_NO_ROUTE    = 207
	STATUS_BAD_REQUEST = 400
	STATUS_TIMEOUT     = 408
)

// UNKNOWN_SERVICE labels queries whose service name matched no plugin.
const UNKNOWN_SERVICE = "unknown"

// Object is the result tree handed to the renderers.
type Object = map[string]any

//*******************************************
// engine options
//*******************************************

type Options struct {
	// number of query contexts
	Workers int
	// slots of every per-context unpacking cache
	CacheCapacity int
	// maximum number of locations of a viaroute query
	MaxLocations int
	// maximum number of locations of a table query
	MaxTableSize int
	Metrics      *Metrics
}

func (self Options) _WithDefaults() Options {
	if self.MaxLocations <= 0 {
		self.MaxLocations = 500
	}
	if self.MaxTableSize <= 0 {
		self.MaxTableSize = 100
	}
	return self
}

//*******************************************
// query context
//*******************************************

// QueryContext bundles the mutable search state of one worker. It is owned
// by a single goroutine between acquire and release.
type QueryContext struct {
	query    *routing.CHQuery
	unpacker *routing.Unpacker
}

type _Snapshot struct {
	weighting  graph.IWeighting
	generation uint32
}

//*******************************************
// routing engine
//*******************************************

// Engine answers routing queries on a contracted graph. Queries search on
// the static weights of the contraction and report durations under the
// current live weighting.
type Engine struct {
	graph    graph.ICHGraph
	snapshot atomic.Pointer[_Snapshot]
	contexts chan *QueryContext
	options  Options
	metrics  *Metrics
	checksum uint32
}

// NewEngine creates an engine using w as initial live weighting with
// generation 0. If w is nil the graph weighting is used.
func NewEngine(g graph.ICHGraph, w graph.IWeighting, opts Options) (*Engine, error) {
	if g == nil {
		return nil, errors.New("engine needs a graph")
	}
	opts = opts._WithDefaults()
	if opts.Workers <= 0 {
		return nil, fmt.Errorf("invalid number of workers %d", opts.Workers)
	}
	if opts.CacheCapacity <= 0 {
		return nil, fmt.Errorf("invalid cache capacity %d", opts.CacheCapacity)
	}
	if w == nil {
		w = g.GetWeighting()
	}
	engine := &Engine{
		graph:    g,
		contexts: make(chan *QueryContext, opts.Workers),
		options:  opts,
		metrics:  opts.Metrics,
		checksum: _GraphChecksum(g),
	}
	engine.snapshot.Store(&_Snapshot{weighting: w, generation: 0})
	for i := 0; i < opts.Workers; i++ {
		cache := routing.NewUnpackingCache(opts.CacheCapacity, 0)
		engine.contexts <- &QueryContext{
			query:    routing.NewCHQuery(g),
			unpacker: routing.NewUnpacker(g, cache),
		}
	}
	slog.Info(fmt.Sprintf("created engine with %v query contexts (cache capacity %v)", opts.Workers, opts.CacheCapacity))
	return engine, nil
}

func _GraphChecksum(g graph.ICHGraph) uint32 {
	buf := fmt.Sprintf("%d;%d;%d", g.NodeCount(), g.EdgeCount(), g.ShortcutCount())
	return crc32.ChecksumIEEE([]byte(buf))
}

// UpdateWeighting publishes new live weights. Query contexts clear their
// caches the next time they are acquired with a differing generation.
func (self *Engine) UpdateWeighting(w graph.IWeighting, generation uint32) {
	self.snapshot.Store(&_Snapshot{weighting: w, generation: generation})
	self.metrics.Generation(generation)
	slog.Info(fmt.Sprintf("published weight generation %v", generation))
}

// Generation returns the generation of the active live weighting.
func (self *Engine) Generation() uint32 {
	return self.snapshot.Load().generation
}

func (self *Engine) Checksum() uint32 {
	return self.checksum
}

func (self *Engine) GetGraph() graph.ICHGraph {
	return self.graph
}

func (self *Engine) _Acquire(ctx context.Context) (*QueryContext, error) {
	var qc *QueryContext
	select {
	case qc = <-self.contexts:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	snap := self.snapshot.Load()
	cache := qc.unpacker.GetCache()
	if cache.Generation() != snap.generation {
		cache.Clear(snap.generation)
		self.metrics.CacheCleared()
	}
	qc.unpacker.SetWeighting(snap.weighting)
	return qc, nil
}

func (self *Engine) _Release(qc *QueryContext) {
	hits, misses := qc.unpacker.Stats()
	self.metrics.Unpacked(hits, misses)
	qc.unpacker.ResetStats()
	self.contexts <- qc
}

// RunQuery dispatches params to the requested service and returns the
// status code together with the result tree.
func (self *Engine) RunQuery(ctx context.Context, params *RouteParameters) (int, Object) {
	var status int
	var result Object
	service := params.Service
	switch service {
	case "viaroute":
		status, result = self._RunViaRoute(ctx, params)
	case "table":
		status, result = self._RunTable(ctx, params)
	case "nearest":
		status, result = self._RunNearest(ctx, params, true)
	case "locate":
		status, result = self._RunNearest(ctx, params, false)
	case "timestamp":
		status, result = self._RunTimestamp(ctx, params)
	default:
		// any letters parse as a service, keep the label set bounded
		service = UNKNOWN_SERVICE
		status, result = _ErrorObject(STATUS_BAD_REQUEST, "Service not found")
	}
	self.metrics.Query(service, status)
	return status, result
}

func _ErrorObject(status int, message string) (int, Object) {
	return status, Object{
		"status":         status,
		"status_message": message,
	}
}

func _ContextError(err error) (int, Object) {
	return _ErrorObject(STATUS_TIMEOUT, "Request timed out: "+err.Error())
}
