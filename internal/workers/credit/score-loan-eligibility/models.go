// internal/workers/credit/score-loan-eligibility/models.go
package scoreloaneligibility

import (
	"loan-assessment-workers/internal/documents"
	"loan-assessment-workers/internal/scoring/eligibility"
)

type Input struct {
	ApplicationID string               `json:"applicationId"`
	Documents     []documents.Document `json:"documents,omitempty"`
	DocumentIDs   []string             `json:"documentIds,omitempty"`
	// RequestedLoanAmount accepts a number or a formatted amount such as "₹50 L".
	RequestedLoanAmount documents.Amount `json:"requestedLoanAmount"`
	Industry            string           `json:"industry"`
}

type Output struct {
	ApplicationID      string             `json:"applicationId"`
	Result             eligibility.Result `json:"result"`
	DocumentsEvaluated int                `json:"documentsEvaluated"`
	MissingDocumentIDs []string           `json:"missingDocumentIds,omitempty"`
}
