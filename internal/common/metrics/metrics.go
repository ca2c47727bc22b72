// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"
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

	ClassifierVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_report_verdicts_total",
			Help: "Credit report classification verdicts by match and format",
		},
		[]string{"is_match", "format"},
	)

	ClassifierConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "credit_report_confidence",
			Help:    "Confidence of credit report classifications",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	EligibilityDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_eligibility_decisions_total",
			Help: "Loan eligibility decisions",
		},
		[]string{"eligible"},
	)

	EligibilityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loan_eligibility_score",
			Help:    "Loan eligibility scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	EligibilityRiskFlags = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loan_eligibility_risk_flags",
			Help:    "Risk flags raised per eligibility assessment",
			Buckets: []float64{0, 1, 2, 3, 4},
		},
	)

	DocumentsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "financial_documents_stored_total",
			Help: "Financial documents stored by type",
		},
		[]string{"document_type"},
	)

	DocumentStoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "document_store_operation_duration_seconds",
			Help:    "Duration of document store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation", "status"},
	)
)

// JobTimer tracks one job from activation to completion or failure.
type JobTimer struct {
	taskType string
	start    time.Time
}

// StartJob marks a job active and starts its duration timer.
func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

// Completed records a successful job.
func (t *JobTimer) Completed() {
	t.finish()
	WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
}

// Failed records a failed job under its error code.
func (t *JobTimer) Failed(errorCode string) {
	t.finish()
	WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
}

func (t *JobTimer) finish() {
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(time.Since(t.start).Seconds())
}

// ObserveVerdict records one classifier verdict.
func ObserveVerdict(isMatch bool, format string, confidence int) {
	ClassifierVerdicts.WithLabelValues(strconv.FormatBool(isMatch), format).Inc()
	ClassifierConfidence.Observe(float64(confidence))
}

// ObserveDecision records one eligibility result.
func ObserveDecision(eligible bool, score, riskFlags int) {
	EligibilityDecisions.WithLabelValues(strconv.FormatBool(eligible)).Inc()
	EligibilityScore.Observe(float64(score))
	EligibilityRiskFlags.Observe(float64(riskFlags))
}

// ObserveStoreOperation records the outcome of a document store call.
func ObserveStoreOperation(backend, operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DocumentStoreDuration.WithLabelValues(backend, operation, status).Observe(time.Since(start).Seconds())
}
