// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"loan-assessment-workers/internal/common/camunda"
	"loan-assessment-workers/internal/common/config"
	apperrors "loan-assessment-workers/internal/common/errors"
	"loan-assessment-workers/internal/common/logger"
	"loan-assessment-workers/internal/common/observability"
	"loan-assessment-workers/internal/common/validation"
	"loan-assessment-workers/internal/documentstore"
	"loan-assessment-workers/internal/scoring/classifier"
	"loan-assessment-workers/internal/scoring/eligibility"

	"loan-assessment-workers/pkg/registry"

	ccr "loan-assessment-workers/internal/workers/credit/classify-credit-report"
	sle "loan-assessment-workers/internal/workers/credit/score-loan-eligibility"
	sfd "loan-assessment-workers/internal/workers/documents/store-financial-document"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("documentBackend", cfg.Documents.Backend),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Scoring core ---
	vocab, err := ccr.LoadVocabulary(cfg.Classifier)
	if err != nil {
		zapLog.Fatal("classifier vocabulary unavailable",
			zap.Error(apperrors.NewVocabularyLoadFailedError(cfg.Classifier.VocabularyPath, err)))
	}
	creditClassifier := classifier.NewClassifier(vocab, ccr.ClassifierOptions(cfg.Classifier))
	scorer := eligibility.NewScorer(sle.Rubric(cfg.Scoring))

	validator, err := validation.NewDocumentValidator()
	if err != nil {
		zapLog.Fatal("document schemas failed to compile", zap.Error(err))
	}

	// --- Document store with retry ---
	var store documentstore.Store
	err = retryWithBackoff(func() error {
		var err error
		store, err = documentstore.New(ctx, cfg)
		return err
	}, 15, 2*time.Second, zapLog, "Document store connection")
	if err != nil {
		zapLog.Fatal("document store failed after retries", zap.Error(err))
	}
	zapLog.Info("Document store connected successfully", zap.String("backend", cfg.Documents.Backend))

	// --- Zeebe client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientFromConfig(cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Workers ---
	handlers := []struct {
		activity registry.Activity
		handler  camunda.JobHandler
	}{
		{
			activity: registry.Activity{
				DisplayName: "Classify Credit Report",
				Description: "Scores document text against the CIBIL vocabulary and extracts the report summary",
				Category:    "credit",
				TaskType:    ccr.TaskType,
				ErrorCodes:  []string{string(apperrors.ErrCodeInvalidInput)},
			},
			handler: ccr.NewHandler(ccr.LoadConfig(cfg), creditClassifier, obs, log),
		},
		{
			activity: registry.Activity{
				DisplayName: "Store Financial Document",
				Description: "Validates a typed financial document and persists it for the application",
				Category:    "documents",
				TaskType:    sfd.TaskType,
				ErrorCodes: []string{
					string(apperrors.ErrCodeInvalidInput),
					string(apperrors.ErrCodeInvalidDocumentPayload),
					string(apperrors.ErrCodeDocumentStoreFailed),
				},
			},
			handler: sfd.NewHandler(sfd.LoadConfig(cfg), store, validator, obs, log),
		},
		{
			activity: registry.Activity{
				DisplayName: "Score Loan Eligibility",
				Description: "Combines stored and inline documents into an eligibility decision",
				Category:    "credit",
				TaskType:    sle.TaskType,
				ErrorCodes: []string{
					string(apperrors.ErrCodeInvalidInput),
					string(apperrors.ErrCodeDocumentLoadFailed),
				},
			},
			handler: sle.NewHandler(sle.LoadConfig(cfg), store, scorer, obs, log),
		},
	}

	activities := registry.New(cfg.App.Version)
	var workers []*camunda.CamundaWorker
	for _, h := range handlers {
		wcfg := config.GetWorkerConfig(cfg, h.activity.TaskType)
		h.activity.Enabled = wcfg.Enabled
		h.activity.Timeout = config.GetDuration(wcfg.Timeout).String()
		h.activity.Retries = wcfg.MaxRetries
		if err := activities.Add(h.activity); err != nil {
			zapLog.Fatal("activity registration failed", zap.Error(err))
		}

		if w := camunda.NewWorker(zeebe.GetClient(), h.activity.TaskType, wcfg, h.handler, log); w != nil {
			workers = append(workers, w)
		}
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr: cfg.Metrics.Address,
		Handler: newServeMux(activities,
			readinessCheck{name: "documentStore", check: store.Ping},
			readinessCheck{name: "zeebe", check: zeebe.HealthCheck},
		),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health/metrics server", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop()
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		zapLog.Error("Error closing document store", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}
