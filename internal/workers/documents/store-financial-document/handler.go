// internal/workers/documents/store-financial-document/handler.go
package storefinancialdocument

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"loan-assessment-workers/internal/common/camunda"
	"loan-assessment-workers/internal/common/errors"
	"loan-assessment-workers/internal/common/logger"
	"loan-assessment-workers/internal/common/metrics"
	"loan-assessment-workers/internal/common/observability"
	"loan-assessment-workers/internal/common/validation"
	"loan-assessment-workers/internal/documents"
	"loan-assessment-workers/internal/documentstore"
	"loan-assessment-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "store-financial-document"
)

type Handler struct {
	config    *Config
	store     documentstore.Store
	validator *validation.DocumentValidator
	obs       *observability.Observability
	retrier   *camunda.Retrier
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, store documentstore.Store, validator *validation.DocumentValidator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     store,
		validator: validator,
		obs:       obs,
		retrier:   camunda.NewRetrier(&config.Retry),
		errors:    errors.NewErrorHandler(log),
		logger:    log,
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

	span.SetAttributes(attribute.String("document.type", string(output.DocumentType)))
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
	raw := bytes.TrimSpace(input.Document)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.NewInvalidInputError("document is required").WithMetadata("field", "document")
	}

	docType, result := h.validator.Validate(raw)
	if !result.Valid {
		h.logger.Warn("document payload rejected", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"documentType":  docType,
			"errors":        result.Errors,
		})
		return nil, errors.NewInvalidDocumentPayloadError(string(docType), result.Summary())
	}

	var doc documents.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.NewInvalidDocumentPayloadError(string(docType), err.Error())
	}

	stored := models.StoredDocument{
		ID:            uuid.New().String(),
		ApplicationID: input.ApplicationID,
		Document:      doc,
		StoredAt:      time.Now().UTC(),
	}
	if err := h.store.Put(ctx, stored); err != nil {
		return nil, errors.NewDocumentStoreFailedError(err).WithMetadata("applicationId", input.ApplicationID)
	}
	metrics.DocumentsStored.WithLabelValues(string(doc.Type)).Inc()

	h.logger.Info("financial document stored", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"documentId":    stored.ID,
		"documentType":  doc.Type,
	})

	ref := stored.Ref()
	return &Output{
		DocumentID:   ref.ID,
		DocumentType: ref.DocumentType,
	}, nil
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
