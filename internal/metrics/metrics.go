// Package metrics exposes Prometheus collectors for the prediction engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// ModelWin labels the win-probability classifier.
	ModelWin = "win"
	// ModelPosition labels the finishing-position regressor.
	ModelPosition = "position"
	// ModelPoints labels the points regressor.
	ModelPoints = "points"
)

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "podium",
			Name:      "predictions_total",
			Help:      "Driver predictions produced, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	inferenceSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "podium",
			Name:      "inference_seconds",
			Help:      "Per-batch model inference latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"model"},
	)

	schemaZeroFillsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "podium",
			Name:      "schema_zero_fills_total",
			Help:      "Features zero-filled by schema alignment.",
		},
	)

	defaultedDriversTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "podium",
			Name:      "defaulted_drivers_total",
			Help:      "Drivers whose rows were built from defaulted attributes.",
		},
	)
)

// Register attaches podium collectors to the supplied Prometheus registerer.
// Registering the same collectors twice is tolerated so library and CLI use
// can share a registry.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		predictionsTotal,
		inferenceSeconds,
		schemaZeroFillsTotal,
		defaultedDriversTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// CountPrediction records one driver prediction with an outcome label
// ("ok" or "defaulted").
func CountPrediction(defaulted bool) {
	label := "ok"
	if defaulted {
		label = "defaulted"
		defaultedDriversTotal.Inc()
	}
	predictionsTotal.WithLabelValues(label).Inc()
}

// ObserveInference records one model run's latency.
func ObserveInference(model string, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	inferenceSeconds.WithLabelValues(model).Observe(duration.Seconds())
}

// CountZeroFills records schema-alignment substitutions.
func CountZeroFills(n int) {
	if n > 0 {
		schemaZeroFillsTotal.Add(float64(n))
	}
}
