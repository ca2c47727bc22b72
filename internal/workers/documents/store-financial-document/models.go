// internal/workers/documents/store-financial-document/models.go
package storefinancialdocument

import (
	"encoding/json"

	"loan-assessment-workers/internal/documents"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
	// Document is the {"type", "fields"} payload produced by the field extractor.
	Document json.RawMessage `json:"document"`
}

type Output struct {
	DocumentID   string         `json:"documentId"`
	DocumentType documents.Type `json:"documentType"`
}
