// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MatchCandidatesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_candidates_scored_total",
			Help: "Candidates scored by the matching engine",
		},
		[]string{"direction"},
	)

	MatchResultsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_results_returned_total",
			Help: "Ranked matches returned after the minimum score cut",
		},
		[]string{"direction"},
	)

	MatchPoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "match_candidate_pool_size",
			Help:    "Candidates fetched from the profile store per match request",
			Buckets: []float64{0, 5, 10, 20, 40, 80, 120, 160, 200},
		},
		[]string{"direction"},
	)

	ProfileCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_cache_lookups_total",
			Help: "Profile cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)
)

// Match directions used as the direction label.
const (
	DirectionInfluencers = "influencers"
	DirectionBusinesses  = "businesses"
)

// ObserveMatchRun records the size of a scored pool and how many matches survived ranking.
func ObserveMatchRun(direction string, poolSize, returned int) {
	MatchPoolSize.WithLabelValues(direction).Observe(float64(poolSize))
	MatchCandidatesScored.WithLabelValues(direction).Add(float64(poolSize))
	MatchResultsReturned.WithLabelValues(direction).Add(float64(returned))
}
