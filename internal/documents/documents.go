// internal/documents/documents.go

// Package documents defines the typed financial documents consumed by the scoring core.
// Each DocumentType has its own fields struct; callers switch on the concrete type.
package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Type identifies a financial document kind.
type Type string

const (
	TypeBalanceSheet  Type = "balance_sheet"
	TypeProfitLoss    Type = "profit_loss"
	TypeBankStatement Type = "bank_statement"
	TypeGSTReturns    Type = "gst_returns"
	TypeITRDocument   Type = "itr_document"
	TypeCIBILReport   Type = "cibil_report"
)

// Types lists every known document type in a stable order.
var Types = []Type{
	TypeBalanceSheet,
	TypeProfitLoss,
	TypeBankStatement,
	TypeGSTReturns,
	TypeITRDocument,
	TypeCIBILReport,
}

// Known reports whether t is one of the closed set of document types.
func (t Type) Known() bool {
	switch t {
	case TypeBalanceSheet, TypeProfitLoss, TypeBankStatement, TypeGSTReturns, TypeITRDocument, TypeCIBILReport:
		return true
	}
	return false
}

// Amount is a currency value as produced by the field extractor ("₹15.50 L", "120000").
// JSON numbers are accepted and kept in their literal form.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("amount must be a string or number: %w", err)
		}
		*a = Amount(n.String())
		return nil
	}
}

// Fields is implemented by the per-type field structs only.
type Fields interface {
	DocumentType() Type
	sealed()
}

type BalanceSheet struct {
	CurrentAssets      Amount `json:"currentAssets,omitempty"`
	CurrentLiabilities Amount `json:"currentLiabilities,omitempty"`
	TotalLiabilities   Amount `json:"totalLiabilities,omitempty"`
	NetWorth           Amount `json:"netWorth,omitempty"`
	TotalAssets        Amount `json:"totalAssets,omitempty"`
}

type ProfitLoss struct {
	Revenue       Amount `json:"revenue,omitempty"`
	NetProfit     Amount `json:"netProfit,omitempty"`
	EBITDA        Amount `json:"ebitda,omitempty"`
	FinancialYear string `json:"financialYear,omitempty"`
}

// CashFlowPattern values recognised by the banking score.
const (
	CashFlowPositive = "positive"
	CashFlowNegative = "negative"
	CashFlowStable   = "stable"
)

type BankStatement struct {
	ChequeBounces         int    `json:"chequeBounces"`
	CashFlowPattern       string `json:"cashFlowPattern,omitempty"`
	AverageMonthlyBalance Amount `json:"averageMonthlyBalance,omitempty"`
	LoanEMIs              Amount `json:"loanEMIs,omitempty"`
	StatementPeriod       string `json:"statementPeriod,omitempty"`
}

type GSTReturns struct {
	FilingRegularity string `json:"filingRegularity,omitempty"`
	AnnualTurnover   Amount `json:"annualTurnover,omitempty"`
	ReturnsFiled     *int   `json:"returnsFiled,omitempty"`
}

type ITRDocument struct {
	AssessmentYear string `json:"assessmentYear,omitempty"`
	TotalIncome    Amount `json:"totalIncome,omitempty"`
	TaxPaid        Amount `json:"taxPaid,omitempty"`
}

// CIBILReport is the credit bureau report. Score is nil when the report carries none.
type CIBILReport struct {
	Score           *int   `json:"score"`
	ReportDate      string `json:"reportDate,omitempty"`
	ActiveAccounts  *int   `json:"activeAccounts,omitempty"`
	OverdueAccounts *int   `json:"overdueAccounts,omitempty"`
}

func (*BalanceSheet) DocumentType() Type  { return TypeBalanceSheet }
func (*ProfitLoss) DocumentType() Type    { return TypeProfitLoss }
func (*BankStatement) DocumentType() Type { return TypeBankStatement }
func (*GSTReturns) DocumentType() Type    { return TypeGSTReturns }
func (*ITRDocument) DocumentType() Type   { return TypeITRDocument }
func (*CIBILReport) DocumentType() Type   { return TypeCIBILReport }

func (*BalanceSheet) sealed()  {}
func (*ProfitLoss) sealed()    {}
func (*BankStatement) sealed() {}
func (*GSTReturns) sealed()    {}
func (*ITRDocument) sealed()   {}
func (*CIBILReport) sealed()   {}

// Document is a typed document. Fields is nil when Type is not a known type.
type Document struct {
	Type   Type
	Fields Fields
}

// New wraps fields in a Document of the matching type.
func New(f Fields) Document {
	return Document{Type: f.DocumentType(), Fields: f}
}

type wireDocument struct {
	Type   Type            `json:"type"`
	Fields json.RawMessage `json:"fields,omitempty"`
}

// UnmarshalJSON decodes {"type": ..., "fields": {...}}. Unknown types decode without error
// and carry no fields.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	d.Type = w.Type
	d.Fields = newFields(w.Type)
	if d.Fields == nil {
		return nil
	}
	if len(w.Fields) == 0 || bytes.Equal(bytes.TrimSpace(w.Fields), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(w.Fields, d.Fields); err != nil {
		return fmt.Errorf("decode %s fields: %w", w.Type, err)
	}
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	w := struct {
		Type   Type   `json:"type"`
		Fields Fields `json:"fields"`
	}{Type: d.Type, Fields: d.Fields}
	return json.Marshal(w)
}

func newFields(t Type) Fields {
	switch t {
	case TypeBalanceSheet:
		return &BalanceSheet{}
	case TypeProfitLoss:
		return &ProfitLoss{}
	case TypeBankStatement:
		return &BankStatement{}
	case TypeGSTReturns:
		return &GSTReturns{}
	case TypeITRDocument:
		return &ITRDocument{}
	case TypeCIBILReport:
		return &CIBILReport{}
	}
	return nil
}

// IntPtr is a convenience for building documents with optional integer fields.
func IntPtr(v int) *int { return &v }

// String renders a Document for logs.
func (d Document) String() string {
	if d.Fields == nil {
		return strconv.Quote(string(d.Type)) + "(no fields)"
	}
	return string(d.Type)
}
