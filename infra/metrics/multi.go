package metrics

import coremetrics "github.com/lessonbird/timetable/core/metrics"

// MultiSink fans admission records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordResolution forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordResolution(recs []coremetrics.ResolutionRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordResolution(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordApply forwards commit records to sinks that support them.
func (m *MultiSink) RecordApply(rec coremetrics.ApplyRecord) error {
	for _, s := range m.Sinks {
		if ar, ok := s.(coremetrics.ApplyRecorder); ok {
			if err := ar.RecordApply(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSnapshotSize forwards snapshot sizes to sinks that support them.
func (m *MultiSink) RecordSnapshotSize(size int) error {
	for _, s := range m.Sinks {
		if sr, ok := s.(coremetrics.SnapshotSizeRecorder); ok {
			if err := sr.RecordSnapshotSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
