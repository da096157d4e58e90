package memory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks allocator activity.
type Metrics struct {
	inUse       prometheus.Gauge
	allocations prometheus.Counter
	failures    prometheus.Counter
}

// NewMetrics creates the allocator metrics, registering them with reg when it
// is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		inUse: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "drill_vector_allocator_bytes_in_use",
			Help: "Bytes currently held by live vector buffers.",
		}),
		allocations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "drill_vector_allocator_allocations_total",
			Help: "Number of buffers handed out by the allocator.",
		}),
		failures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "drill_vector_allocator_failures_total",
			Help: "Number of allocation requests refused because of the limit.",
		}),
	}
}
