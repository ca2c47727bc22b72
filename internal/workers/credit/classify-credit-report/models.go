// internal/workers/credit/classify-credit-report/models.go
package classifycreditreport

import (
	"loan-assessment-workers/internal/scoring/classifier"
	"loan-assessment-workers/internal/scoring/creditreport"
)

type Input struct {
	DocumentID     string `json:"documentId,omitempty"`
	Text           string `json:"text"`
	SkipValidation bool   `json:"skipValidation,omitempty"`
}

type Output struct {
	DocumentID string                `json:"documentId,omitempty"`
	Verdict    classifier.Verdict    `json:"verdict"`
	Report     *creditreport.Summary `json:"report,omitempty"`
}
