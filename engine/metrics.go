package engine

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports query and unpacking cache counters. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	queries      *prometheus.CounterVec
	cache_hits   prometheus.Counter
	cache_misses prometheus.Counter
	cache_clears prometheus.Counter
	generation   prometheus.Gauge
}

// NewMetrics registers the engine metrics with reg (nil => prometheus.DefaultRegisterer).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chrouter",
			Subsystem: "engine",
			Name:      "queries_total",
			Help:      "Queries by service and status",
		}, []string{"service", "status"}),
		cache_hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chrouter",
			Subsystem: "unpacking_cache",
			Name:      "hits_total",
			Help:      "Shortcut durations served from the unpacking cache",
		}),
		cache_misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chrouter",
			Subsystem: "unpacking_cache",
			Name:      "misses_total",
			Help:      "Shortcut durations recomputed by unpacking",
		}),
		cache_clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chrouter",
			Subsystem: "unpacking_cache",
			Name:      "clears_total",
			Help:      "Unpacking caches cleared after a weight update",
		}),
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chrouter",
			Subsystem: "engine",
			Name:      "weight_generation",
			Help:      "Generation of the active weight snapshot",
		}),
	}
	reg.MustRegister(m.queries, m.cache_hits, m.cache_misses, m.cache_clears, m.generation)
	return m
}

func (self *Metrics) Query(service string, status int) {
	if self == nil {
		return
	}
	self.queries.WithLabelValues(service, strconv.Itoa(status)).Inc()
}

func (self *Metrics) Unpacked(hits, misses int) {
	if self == nil {
		return
	}
	self.cache_hits.Add(float64(hits))
	self.cache_misses.Add(float64(misses))
}

func (self *Metrics) CacheCleared() {
	if self == nil {
		return
	}
	self.cache_clears.Inc()
}

func (self *Metrics) Generation(generation uint32) {
	if self == nil {
		return
	}
	self.generation.Set(float64(generation))
}
