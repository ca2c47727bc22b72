// internal/documentstore/postgres.go
package documentstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"loan-assessment-workers/internal/documents"
	"loan-assessment-workers/internal/models"

	"github.com/lib/pq"
)

// PostgresStore keeps documents in a table with a JSONB document column.
type PostgresStore struct {
	db    *sql.DB
	table string
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

// Migrate creates the document table when it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id             TEXT PRIMARY KEY,
			application_id TEXT NOT NULL,
			document_type  TEXT NOT NULL,
			document       JSONB NOT NULL,
			stored_at      TIMESTAMPTZ NOT NULL
		)`, s.table))
	if err != nil {
		return fmt.Errorf("migrate %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, doc models.StoredDocument) error {
	data, err := json.Marshal(doc.Document)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.ID, err)
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, application_id, document_type, document, stored_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			application_id = EXCLUDED.application_id,
			document_type  = EXCLUDED.document_type,
			document       = EXCLUDED.document,
			stored_at      = EXCLUDED.stored_at`, s.table),
		doc.ID, doc.ApplicationID, string(doc.Document.Type), data, doc.StoredAt,
	)
	if err != nil {
		return fmt.Errorf("postgres put %s: %w", doc.ID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.StoredDocument, error) {
	var (
		doc  models.StoredDocument
		data []byte
	)

	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT id, application_id, document, stored_at FROM %s WHERE id = $1`, s.table), id,
	).Scan(&doc.ID, &doc.ApplicationID, &data, &doc.StoredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, fmt.Errorf("postgres get %s: %w", id, err)
	}

	var d documents.Document
	if err := json.Unmarshal(data, &d); err != nil {
		return doc, fmt.Errorf("decode document %s: %w", id, err)
	}
	doc.Document = d
	return doc, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, s.table))
	if err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres list: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table), id)
	if err != nil {
		return fmt.Errorf("postgres delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres delete %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
