package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ReportsGeneratedTotal counts generated fleet reports by outcome.
	ReportsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "elora",
		Subsystem: "reports",
		Name:      "generated_total",
		Help:      "Total number of fleet reports generated, labeled by result.",
	}, []string{"result"})

	// ReportDurationSeconds measures end-to-end report generation time,
	// including telemetry fetches.
	ReportDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "elora",
		Subsystem: "reports",
		Name:      "duration_seconds",
		Help:      "End-to-end time to generate a fleet report.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	// TanksComputedTotal counts per-tank level computations by outcome.
	TanksComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "elora",
		Subsystem: "tanks",
		Name:      "computed_total",
		Help:      "Total number of tank level computations, labeled by result.",
	}, []string{"result"})

	// EloraAPICallsTotal counts telemetry API calls by endpoint and result.
	EloraAPICallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "elora",
		Subsystem: "api",
		Name:      "calls_total",
		Help:      "Total number of Elora telemetry API calls, labeled by endpoint and result.",
	}, []string{"endpoint", "result"})
)

// Register registers all collectors exactly once onto the default
// registry. Safe to call from multiple mains.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ReportsGeneratedTotal,
			ReportDurationSeconds,
			TanksComputedTotal,
			EloraAPICallsTotal,
		)
	})
}
