// internal/common/metrics/metrics.go
package metrics

import (
	"time"

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

	AdmissionChance = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admission_chance_percent",
			Help:    "Distribution of estimated admission chances",
			Buckets: []float64{5, 10, 20, 30, 40, 50, 60, 70, 85},
		},
		[]string{"variant", "tier"},
	)

	EssayScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "essay_overall_score",
			Help:    "Distribution of essay overall scores",
			Buckets: prometheus.LinearBuckets(50, 5, 11),
		},
		[]string{"variant"},
	)
)

// JobTracker measures one job from Start to Done.
type JobTracker struct {
	taskType string
	start    time.Time
}

// StartJob marks a job of taskType active.
func StartJob(taskType string) *JobTracker {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTracker{taskType: taskType, start: time.Now()}
}

// Done records the job outcome. An empty errorCode means success.
func (j *JobTracker) Done(errorCode string) {
	WorkerJobsActive.WithLabelValues(j.taskType).Dec()
	WorkerJobDuration.WithLabelValues(j.taskType).Observe(time.Since(j.start).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(j.taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(j.taskType, errorCode).Inc()
}
