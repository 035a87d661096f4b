package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsRegistered(t *testing.T) {
	// Vectors only appear after their first observation.
	IgnoredEvents.WithLabelValues(ReasonUnknownContact).Add(0)
	Saves.WithLabelValues(StatusOK).Add(0)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	expected := map[string]bool{
		"fingerpaint_strokes_committed_total": false,
		"fingerpaint_strokes_cancelled_total": false,
		"fingerpaint_segments_total":          false,
		"fingerpaint_ignored_events_total":    false,
		"fingerpaint_saves_total":             false,
		"fingerpaint_save_duration_seconds":   false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestCounterValue(t *testing.T) {
	before := CounterValue(StrokesCommitted)
	StrokesCommitted.Inc()
	StrokesCommitted.Inc()

	if got := CounterValue(StrokesCommitted) - before; got != 2 {
		t.Errorf("strokes delta = %v, want 2", got)
	}

	c := IgnoredEvents.WithLabelValues(ReasonBelowTolerance)
	before = CounterValue(c)
	c.Inc()
	if got := CounterValue(c) - before; got != 1 {
		t.Errorf("ignored delta = %v, want 1", got)
	}
}

func TestCounterValueNonCounter(t *testing.T) {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_gauge", Help: "test"})
	g.Set(3)

	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("write gauge: %v", err)
	}
	if got := CounterValue(g); got != 0 {
		t.Errorf("CounterValue(gauge) = %v, want 0", got)
	}
}
