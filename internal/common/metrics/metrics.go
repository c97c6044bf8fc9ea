// internal/common/metrics/metrics.go
package metrics

import (
	"context"
	"time"

	"recruit-analytics/internal/common/observability"

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

	AnalyticsRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_runs_total",
			Help: "Analysis runs by task type and outcome",
		},
		[]string{"task_type", "status"},
	)

	AnalyticsRosterRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_roster_rows",
			Help:    "Candidate rows kept per analysed roster",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
		[]string{"task_type"},
	)

	AnalyticsAlertsRaised = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "analytics_alerts_raised",
			Help: "Candidates flagged by each alert rule in the latest run",
		},
		[]string{"rule"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Alert digest deliveries by channel and outcome",
		},
		[]string{"channel", "status"},
	)
)

// JobTimer tracks one job from activation to completion.
type JobTimer struct {
	taskType string
	start    time.Time
}

// StartJob marks a job active and starts timing it.
func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

// Done records the outcome. errorCode is empty on success.
func (t *JobTimer) Done(errorCode string) time.Duration {
	elapsed := time.Since(t.start)
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(elapsed.Seconds())

	status := "success"
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
	} else {
		status = "failed"
		WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
	}
	AnalyticsRuns.WithLabelValues(t.taskType, status).Inc()
	observability.RecordJob(context.Background(), t.taskType, status, elapsed)
	return elapsed
}
