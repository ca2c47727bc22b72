// internal/workers/credit/classify-credit-report/handler.go
package classifycreditreport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-assessment-workers/internal/common/camunda"
	"loan-assessment-workers/internal/common/errors"
	"loan-assessment-workers/internal/common/logger"
	"loan-assessment-workers/internal/common/metrics"
	"loan-assessment-workers/internal/common/observability"
	"loan-assessment-workers/internal/scoring/classifier"
	"loan-assessment-workers/internal/scoring/creditreport"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "classify-credit-report"
)

type Handler struct {
	config     *Config
	classifier *classifier.Classifier
	obs        *observability.Observability
	retrier    *camunda.Retrier
	errors     *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, c *classifier.Classifier, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		classifier: c,
		obs:        obs,
		retrier:    camunda.NewRetrier(&config.Retry),
		errors:     errors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)
	start := time.Now()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int64("job.key", job.Key))

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, timer, start, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		observability.EndSpan(span, err)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, timer, start, err)
		observability.EndSpan(span, err)
		return
	}

	span.SetAttributes(
		attribute.Bool("verdict.is_match", output.Verdict.IsMatch),
		attribute.Int("verdict.confidence", output.Verdict.Confidence),
	)
	h.completeJob(ctx, client, job, output)
	timer.Completed()
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
	observability.EndSpan(span, nil)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	// Every later pass sees at most MaxInputBytes.
	text, truncated := h.classifier.Truncate(input.Text)
	if h.config.CleanOCRText {
		text = classifier.CleanOCRText(text)
	}

	var verdict classifier.Verdict
	if input.SkipValidation {
		verdict = h.classifier.Classify(text)
	} else {
		verdict = h.classifier.Assess(text)
	}
	if truncated {
		verdict.Reasons = append([]string{h.classifier.TruncationReason()}, verdict.Reasons...)
	}
	metrics.ObserveVerdict(verdict.IsMatch, string(verdict.FormatTag), verdict.Confidence)

	output := &Output{
		DocumentID: input.DocumentID,
		Verdict:    verdict,
	}
	if verdict.IsMatch {
		report := creditreport.Extract(text)
		output.Report = &report
	}

	h.logger.Info("credit report classified", map[string]interface{}{
		"documentId": input.DocumentID,
		"isMatch":    verdict.IsMatch,
		"confidence": verdict.Confidence,
		"version":    verdict.VersionTag,
		"format":     verdict.FormatTag,
	})

	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	err = h.retrier.Do(ctx, "complete job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error":  err,
			"jobKey": job.Key,
			"code":   errors.Normalize(err).Code,
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, timer *metrics.JobTimer, start time.Time, err error) {
	timer.Failed(string(errors.Normalize(err).Code))
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errors.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
