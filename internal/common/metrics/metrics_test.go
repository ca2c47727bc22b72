// internal/common/metrics/metrics_test.go
package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestJobTimer(t *testing.T) {
	const taskType = "metrics-test-job"

	done := StartJob(taskType)
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues(taskType)))
	done.Completed()

	failed := StartJob(taskType)
	failed.Failed("DOCUMENT_LOAD_FAILED")

	assert.Equal(t, 0.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues(taskType)))
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues(taskType)))
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues(taskType, "DOCUMENT_LOAD_FAILED")))
}

func TestObserveVerdictAndDecision(t *testing.T) {
	before := testutil.ToFloat64(ClassifierVerdicts.WithLabelValues("true", "SUMMARY"))
	ObserveVerdict(true, "SUMMARY", 85)
	assert.Equal(t, before+1, testutil.ToFloat64(ClassifierVerdicts.WithLabelValues("true", "SUMMARY")))

	beforeDecision := testutil.ToFloat64(EligibilityDecisions.WithLabelValues("false"))
	ObserveDecision(false, 42, 3)
	assert.Equal(t, beforeDecision+1, testutil.ToFloat64(EligibilityDecisions.WithLabelValues("false")))
}

func TestObserveStoreOperation(t *testing.T) {
	ObserveStoreOperation("memory", "get", time.Now(), nil)
	ObserveStoreOperation("memory", "get", time.Now(), errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(DocumentStoreDuration, "document_store_operation_duration_seconds"))
}
