// internal/workers/credit/score-loan-eligibility/handler.go
package scoreloaneligibility

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"loan-assessment-workers/internal/common/camunda"
	"loan-assessment-workers/internal/common/errors"
	"loan-assessment-workers/internal/common/logger"
	"loan-assessment-workers/internal/common/metrics"
	"loan-assessment-workers/internal/common/observability"
	"loan-assessment-workers/internal/documents"
	"loan-assessment-workers/internal/documentstore"
	"loan-assessment-workers/internal/scoring/currency"
	"loan-assessment-workers/internal/scoring/eligibility"
	"loan-assessment-workers/internal/scoring/ratios"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "score-loan-eligibility"
)

type Handler struct {
	config  *Config
	store   documentstore.Store
	scorer  *eligibility.Scorer
	obs     *observability.Observability
	retrier *camunda.Retrier
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, store documentstore.Store, scorer *eligibility.Scorer, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		store:   store,
		scorer:  scorer,
		obs:     obs,
		retrier: camunda.NewRetrier(&config.Retry),
		errors:  errors.NewErrorHandler(log),
		logger:  log,
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
		attribute.String("application.id", output.ApplicationID),
		attribute.Int("eligibility.score", output.Result.Score),
		attribute.Bool("eligibility.eligible", output.Result.Eligible),
	)
	h.completeJob(ctx, client, job, output)
	timer.Completed()
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
	observability.EndSpan(span, nil)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.ApplicationID) == "" {
		return nil, errors.NewInvalidInputError("applicationId is required").WithMetadata("field", "applicationId")
	}

	amount := 0.0
	if raw := strings.TrimSpace(string(input.RequestedLoanAmount)); raw != "" {
		parsed := currency.Parse(raw)
		if parsed == nil {
			h.logger.Warn("requestedLoanAmount is not an amount, scoring without a loan cap", map[string]interface{}{
				"applicationId":       input.ApplicationID,
				"requestedLoanAmount": raw,
			})
		} else {
			amount = *parsed
		}
	}
	if amount < 0 {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("requestedLoanAmount must not be negative, got %q", input.RequestedLoanAmount)).
			WithMetadata("field", "requestedLoanAmount")
	}

	docs, missing, err := h.loadDocuments(ctx, input)
	if err != nil {
		return nil, err
	}
	// Stored documents come first, so they win over inline documents of the same type.
	docs = append(docs, input.Documents...)

	result := h.scorer.Score(docs, amount, ratios.ParseIndustry(input.Industry))
	metrics.ObserveDecision(result.Eligible, result.Score, len(result.RiskFlags))

	h.logger.Info("loan eligibility scored", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"documents":     len(docs),
		"missing":       len(missing),
		"score":         result.Score,
		"eligible":      result.Eligible,
		"riskFlags":     result.RiskFlags,
		"maxLoanAmount": result.MaxLoanAmount,
	})

	return &Output{
		ApplicationID:      input.ApplicationID,
		Result:             result,
		DocumentsEvaluated: len(docs),
		MissingDocumentIDs: missing,
	}, nil
}

// loadDocuments fetches input.DocumentIDs in order. Ids that are absent, or stored for
// another application, are reported as missing and treated as not provided.
func (h *Handler) loadDocuments(ctx context.Context, input *Input) ([]documents.Document, []string, error) {
	docs := make([]documents.Document, 0, len(input.DocumentIDs)+len(input.Documents))
	var missing []string

	for _, id := range input.DocumentIDs {
		stored, err := h.store.Get(ctx, id)
		if stderrors.Is(err, documentstore.ErrNotFound) {
			h.logger.Warn("document not found, scoring without it", map[string]interface{}{
				"applicationId": input.ApplicationID,
				"documentId":    id,
			})
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, nil, errors.NewDocumentLoadFailedError(id, err).WithMetadata("applicationId", input.ApplicationID)
		}
		if stored.ApplicationID != input.ApplicationID {
			h.logger.Warn("document belongs to another application, scoring without it", map[string]interface{}{
				"applicationId": input.ApplicationID,
				"documentId":    id,
				"owner":         stored.ApplicationID,
			})
			missing = append(missing, id)
			continue
		}
		docs = append(docs, stored.Document)
	}

	return docs, missing, nil
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
