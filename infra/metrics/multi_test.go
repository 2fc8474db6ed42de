package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	coremetrics "github.com/lessonbird/timetable/core/metrics"
)

type countingSink struct {
	resolutions int
	applies     int
}

func (c *countingSink) RecordResolution(recs []coremetrics.ResolutionRecord) error {
	c.resolutions += len(recs)
	return nil
}

func (c *countingSink) RecordApply(coremetrics.ApplyRecord) error {
	c.applies++
	return nil
}

func TestMultiSink_FanOut(t *testing.T) {
	a := &countingSink{}
	b := &countingSink{}
	m := NewMultiSink(a, b, coremetrics.NopSink{})

	assert.NoError(t, m.RecordResolution(make([]coremetrics.ResolutionRecord, 2)))
	assert.NoError(t, m.RecordApply(coremetrics.ApplyRecord{}))

	assert.Equal(t, 2, a.resolutions)
	assert.Equal(t, 2, b.resolutions)
	assert.Equal(t, 1, a.applies)
	assert.Equal(t, 1, b.applies)
}

func TestMultiSink_SkipsUnsupportedRecorders(t *testing.T) {
	m := NewMultiSink(coremetrics.NopSink{})
	assert.NoError(t, m.RecordSnapshotSize(3))
}
