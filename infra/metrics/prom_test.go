package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/lessonbird/timetable/core/metrics"
	"github.com/lessonbird/timetable/core/model"
)

func TestPromSink_RecordResolution(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	rec := coremetrics.ResolutionRecord{
		Candidate: model.Placement{ClassID: "7a"},
		Admitted:  true,
		Evictions: 1,
		Time:      time.Now(),
	}
	require.NoError(t, sink.RecordResolution([]coremetrics.ResolutionRecord{rec}))

	ps := sink.(*PromSink)
	got := testutil.ToFloat64(ps.decisions.WithLabelValues("7a", "true", ""))
	assert.Equal(t, 1.0, got)
}

func TestPromSink_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	// Second registration must reuse the existing collectors.
	_, err = NewPromSinkWithRegistry(reg)
	assert.NoError(t, err)
}

func TestPromSink_RecordApplyAndSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	ps := sink.(*PromSink)
	require.NoError(t, ps.RecordApply(coremetrics.ApplyRecord{Stale: true, Time: time.Now()}))
	require.NoError(t, ps.RecordSnapshotSize(42))

	assert.Equal(t, 1.0, testutil.ToFloat64(ps.applies.WithLabelValues("true", "false")))
	assert.Equal(t, 42.0, testutil.ToFloat64(ps.snapshot))
}
