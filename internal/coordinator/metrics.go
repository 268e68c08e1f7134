package coordinator

//
// Metrics definitions
//

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsSummaryObjectives returns the summary objectives for promauto.NewSummary.
func metricsSummaryObjectives() map[float64]float64 {
	return map[float64]float64{
		0.5:  0.010, // 0.490 <= φ <= 0.510
		0.9:  0.010, // 0.899 <= φ <= 0.901
		0.99: 0.001, // 0.989 <= φ <= 0.991
	}
}

var (
	// metricCyclesCount counts the cycles whose job finished.
	metricCyclesCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_cycles_count",
		Help: "Total number of completed cycles",
	}, []string{"arm"})

	// metricStatusQueriesCount counts the job status queries.
	metricStatusQueriesCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_status_queries_count",
		Help: "Total number of job status queries",
	}, []string{"status"})

	// metricJobsPendingGauge gauges the number of jobs the barrier is waiting for.
	metricJobsPendingGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campaign_jobs_pending_gauge",
		Help: "The number of jobs the barrier is waiting for",
	})

	// metricBarrierDurationSeconds summarizes the time spent waiting at the barrier.
	metricBarrierDurationSeconds = promauto.NewSummary(prometheus.SummaryOpts{
		Name:       "campaign_barrier_duration_seconds",
		Help:       "Summarizes the time spent waiting for jobs to finish (in seconds)",
		Objectives: metricsSummaryObjectives(),
	})
)
