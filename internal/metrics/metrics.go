// Package metrics provides Prometheus collectors for the drawing engine and
// image persistence.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Reasons an input event was dropped by the stroke engine.
const (
	ReasonUnknownContact = "unknown_contact"
	ReasonBelowTolerance = "below_tolerance"
)

// Save outcomes.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	// StrokesCommitted counts paths composited onto the raster.
	StrokesCommitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fingerpaint_strokes_committed_total",
			Help: "Strokes committed to the raster",
		},
	)

	// StrokesCancelled counts live paths dropped by a cancelled gesture.
	StrokesCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fingerpaint_strokes_cancelled_total",
			Help: "Strokes discarded without committing",
		},
	)

	// Segments counts smoothing segments appended to live paths.
	Segments = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fingerpaint_segments_total",
			Help: "Curve segments appended",
		},
	)

	// IgnoredEvents counts move/end events that did not change any path.
	IgnoredEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fingerpaint_ignored_events_total",
			Help: "Input events absorbed without effect",
		},
		[]string{"reason"},
	)

	// Saves counts raster export attempts by outcome.
	Saves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fingerpaint_saves_total",
			Help: "Image saves",
		},
		[]string{"status"},
	)

	// SaveDuration records how long encoding and writing an image took.
	SaveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fingerpaint_save_duration_seconds",
			Help:    "Image save duration",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)

func init() {
	prometheus.MustRegister(
		StrokesCommitted,
		StrokesCancelled,
		Segments,
		IgnoredEvents,
		Saves,
		SaveDuration,
	)
}
