// Package admission decides whether a candidate timetable placement may be
// admitted against a snapshot of existing placements, and which incumbents
// must be evicted to make room.
package admission

import (
	"time"

	"github.com/lessonbird/timetable/core/catalog"
	"github.com/lessonbird/timetable/core/logger"
	"github.com/lessonbird/timetable/core/metrics"
	"github.com/lessonbird/timetable/core/model"
)

// Decision is the single, atomic outcome of one resolution. EntriesToDelete
// is empty whenever Err is set, so callers never see a partial admission.
type Decision struct {
	EntriesToDelete []string
	Err             error
}

// Admitted reports whether the candidate may be inserted.
func (d Decision) Admitted() bool { return d.Err == nil }

// Engine evaluates candidate placements. It is pure and stateless across
// calls: all inputs are caller-supplied snapshots, so concurrent use is safe.
type Engine struct {
	catalog catalog.Catalog
	log     logger.Logger
	sink    metrics.MetricsSink
}

// NewEngine creates an Engine. The catalog is mandatory; sink may be nil
// when no metrics are recorded.
func NewEngine(cat catalog.Catalog, log logger.Logger, sink metrics.MetricsSink) (*Engine, error) {
	if cat == nil {
		return nil, newError(KindValidation, "nil catalog provided to NewEngine")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{catalog: cat, log: log, sink: sink}, nil
}

// Resolve evaluates the candidate against the existing snapshot. The
// snapshot must already be scoped to the candidate's school and term.
//
// Stages run in fixed order: classifier, class-slot resolver, teacher guard,
// location guard. The first failing stage determines the returned error and
// short-circuits the rest with zero side effects.
func (e *Engine) Resolve(existing []model.Placement, candidate model.Placement) Decision {
	start := time.Now()
	dec := e.resolve(existing, candidate)
	e.observe(candidate, dec, time.Since(start))
	return dec
}

func (e *Engine) resolve(existing []model.Placement, candidate model.Placement) Decision {
	if err := candidate.Validate(); err != nil {
		return Decision{Err: newError(KindValidation, "invalid candidate: %v", err)}
	}
	part, err := classify(candidate, existing)
	if err != nil {
		return Decision{Err: err}
	}
	evict, err := resolveClassSlot(candidate, part.sameClassSlot, e.catalog)
	if err != nil {
		return Decision{Err: err}
	}
	if err := checkTeacher(candidate, part.sameTeacherSlot); err != nil {
		return Decision{Err: err}
	}
	if err := checkLocation(candidate, part.sameRoomSlot, evict); err != nil {
		return Decision{Err: err}
	}
	return Decision{EntriesToDelete: evict}
}

// observe records the decision on the package collectors and the configured
// sink.
func (e *Engine) observe(candidate model.Placement, dec Decision, dur time.Duration) {
	outcome := "admitted"
	kind := ""
	if dec.Err != nil {
		kind = KindOf(dec.Err).String()
		outcome = kind
	}
	resolutionsTotal.WithLabelValues(outcome).Inc()
	resolutionDuration.WithLabelValues(outcome).Observe(dur.Seconds())
	if n := len(dec.EntriesToDelete); n > 0 {
		evictionsTotal.Add(float64(n))
	}

	if e.log != nil {
		if dec.Err != nil {
			e.log.Debugw("placement rejected", map[string]any{
				"class":  candidate.ClassID,
				"day":    candidate.Day.String(),
				"period": candidate.PeriodID,
				"reason": dec.Err.Error(),
			})
		} else {
			e.log.Debugw("placement admitted", map[string]any{
				"class":     candidate.ClassID,
				"day":       candidate.Day.String(),
				"period":    candidate.PeriodID,
				"evictions": len(dec.EntriesToDelete),
			})
		}
	}

	rec := metrics.ResolutionRecord{
		Candidate: candidate,
		Admitted:  dec.Err == nil,
		Kind:      kind,
		Evictions: len(dec.EntriesToDelete),
		Duration:  dur,
		Time:      time.Now(),
	}
	if err := e.sink.RecordResolution([]metrics.ResolutionRecord{rec}); err != nil && e.log != nil {
		e.log.Errorf("metrics error: %v", err)
	}
}
