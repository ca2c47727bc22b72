// internal/documentstore/store.go

// Package documentstore persists typed financial documents between workflow steps.
package documentstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loan-assessment-workers/internal/common/config"
	"loan-assessment-workers/internal/common/database"
	apperrors "loan-assessment-workers/internal/common/errors"
	"loan-assessment-workers/internal/common/metrics"
	"loan-assessment-workers/internal/models"
)

// ErrNotFound is returned by Get and Delete when no document has the given id.
var ErrNotFound = errors.New("document not found")

// Store is a key-value store of documents keyed by document id.
type Store interface {
	Put(ctx context.Context, doc models.StoredDocument) error
	Get(ctx context.Context, id string) (models.StoredDocument, error)
	// List returns every stored id in ascending order.
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// New builds the backend selected by cfg.Documents.Backend, connecting to it when needed.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Documents.Backend {
	case config.BackendRedis:
		client, err := database.NewRedis(ctx, cfg.Database.Redis)
		if err != nil {
			return nil, apperrors.NewDatabaseConnectionFailedError(err).WithMetadata("backend", config.BackendRedis)
		}
		return Instrument(NewRedisStore(client.GetClient(), cfg.Documents.KeyPrefix, cfg.Documents.TTLDuration()), config.BackendRedis), nil

	case config.BackendPostgres:
		pg, err := database.NewPostgres(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, apperrors.NewDatabaseConnectionFailedError(err).WithMetadata("backend", config.BackendPostgres)
		}
		store := NewPostgresStore(pg.GetDB(), cfg.Documents.Table)
		if err := store.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		return Instrument(store, config.BackendPostgres), nil

	case config.BackendMemory:
		return Instrument(NewMemoryStore(), config.BackendMemory), nil

	default:
		return nil, fmt.Errorf("unknown document backend %q", cfg.Documents.Backend)
	}
}

// Instrument wraps s so that every call is timed under the given backend label.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (i *instrumented) Put(ctx context.Context, doc models.StoredDocument) error {
	start := time.Now()
	err := i.Store.Put(ctx, doc)
	metrics.ObserveStoreOperation(i.backend, "put", start, err)
	return err
}

func (i *instrumented) Get(ctx context.Context, id string) (models.StoredDocument, error) {
	start := time.Now()
	doc, err := i.Store.Get(ctx, id)
	metrics.ObserveStoreOperation(i.backend, "get", start, ignoreNotFound(err))
	return doc, err
}

func (i *instrumented) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := i.Store.List(ctx)
	metrics.ObserveStoreOperation(i.backend, "list", start, err)
	return ids, err
}

func (i *instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := i.Store.Delete(ctx, id)
	metrics.ObserveStoreOperation(i.backend, "delete", start, ignoreNotFound(err))
	return err
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
