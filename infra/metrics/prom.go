package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/lessonbird/timetable/core/metrics"
)

// PromSink records admission events in Prometheus metrics.
type PromSink struct {
	decisions *prometheus.CounterVec
	applies   *prometheus.CounterVec
	snapshot  prometheus.Gauge
}

// NewPromSink registers admission metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_decisions_total",
		Help: "Total number of placement decisions",
	}, []string{"class_id", "admitted", "kind"})
	applies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_applies_total",
		Help: "Total number of store commits",
	}, []string{"stale", "error"})
	snapshot := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "placement_snapshot_size",
		Help: "Number of placements in the last snapshot handed to the engine",
	})

	if err := reg.Register(decisions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			decisions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(applies); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			applies = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(snapshot); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			snapshot = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{decisions: decisions, applies: applies, snapshot: snapshot}, nil
}

// RecordResolution increments the decision counter for each record.
func (s *PromSink) RecordResolution(recs []coremetrics.ResolutionRecord) error {
	for _, r := range recs {
		s.decisions.WithLabelValues(r.Candidate.ClassID, strconv.FormatBool(r.Admitted), r.Kind).Inc()
	}
	return nil
}

// RecordApply increments the commit counter.
func (s *PromSink) RecordApply(rec coremetrics.ApplyRecord) error {
	s.applies.WithLabelValues(strconv.FormatBool(rec.Stale), strconv.FormatBool(rec.Err != "")).Inc()
	return nil
}

// RecordSnapshotSize sets the gauge to the latest snapshot size.
func (s *PromSink) RecordSnapshotSize(size int) error {
	if s.snapshot != nil {
		s.snapshot.Set(float64(size))
	}
	return nil
}
