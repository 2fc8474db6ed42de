package admission

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	evictionsTotal     prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.HistogramVec, prometheus.Counter) {
	res := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admission_resolutions_total",
			Help: "Number of admission resolutions by outcome",
		},
		[]string{"outcome"},
	)
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admission_resolution_duration_seconds",
			Help:    "Time spent resolving one candidate placement",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	ev := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admission_evictions_total",
			Help: "Number of incumbent placements scheduled for eviction",
		},
	)
	return res, dur, ev
}

func init() {
	resolutionsTotal, resolutionDuration, evictionsTotal = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers admission metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(resolutionsTotal, resolutionDuration, evictionsTotal)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	resolutionsTotal, resolutionDuration, evictionsTotal = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
