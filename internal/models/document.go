// internal/models/document.go
package models

import (
	"time"

	"loan-assessment-workers/internal/documents"
)

// StoredDocument is a typed financial document persisted for a loan application.
type StoredDocument struct {
	ID            string             `json:"id" db:"id"`
	ApplicationID string             `json:"applicationId" db:"application_id"`
	Document      documents.Document `json:"document" db:"document"`
	StoredAt      time.Time          `json:"storedAt" db:"stored_at"`
}

// DocumentRef is the lightweight listing entry for a stored document.
type DocumentRef struct {
	ID           string         `json:"id"`
	DocumentType documents.Type `json:"documentType"`
}

// Ref returns the listing entry for d.
func (d StoredDocument) Ref() DocumentRef {
	return DocumentRef{ID: d.ID, DocumentType: d.Document.Type}
}
