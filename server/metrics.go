package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports request counters and latencies. A nil *Metrics is a valid
// no-op.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the server metrics with reg (nil => prometheus.DefaultRegisterer).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chrouter",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Handled requests by result kind and http status",
		}, []string{"result", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chrouter",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "Time spent handling a request",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"result"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (self *Metrics) Observe(kind ResultKind, status int, elapsed time.Duration) {
	if self == nil {
		return
	}
	self.requests.WithLabelValues(kind.String(), strconv.Itoa(status)).Inc()
	self.duration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
}
