package light

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "light"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of periods reconciled since the session started.
	PeriodsSynced metrics.Counter
	// Number of pairwise disputes resolved.
	Fights metrics.Counter
	// Number of provers eliminated, by fight loss or fetch failure.
	ProversEliminated metrics.Counter
	// Current size of the survivor set.
	Survivors metrics.Gauge
}

// PrometheusMetrics returns Metrics built using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		PeriodsSynced: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "periods_synced",
			Help:      "Number of sync-committee periods reconciled.",
		}, labels).With(labelsAndValues...),
		Fights: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "fights",
			Help:      "Number of pairwise prover disputes resolved.",
		}, labels).With(labelsAndValues...),
		ProversEliminated: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "provers_eliminated",
			Help:      "Number of provers eliminated from the survivor set.",
		}, labels).With(labelsAndValues...),
		Survivors: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "survivors",
			Help:      "Current number of surviving provers.",
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		PeriodsSynced:     discard.NewCounter(),
		Fights:            discard.NewCounter(),
		ProversEliminated: discard.NewCounter(),
		Survivors:         discard.NewGauge(),
	}
}
