// internal/scoring/ratios/ratios.go

// Package ratios derives financial ratios and factor values from a located document set.
// A nil ratio means an operand was missing or the denominator was zero.
package ratios

import (
	"math"
	"strings"

	"loan-assessment-workers/internal/documents"
	"loan-assessment-workers/internal/scoring/currency"
)

// NeutralBankingScore is used when no bank statement was provided.
const NeutralBankingScore = 50

// Industry is the applicant's business sector.
type Industry string

const (
	IndustryManufacturing Industry = "manufacturing"
	IndustryServices      Industry = "services"
	IndustryTrading       Industry = "trading"
	IndustryOther         Industry = "other"
)

// ParseIndustry maps free input onto an Industry. Anything unrecognised is IndustryOther.
func ParseIndustry(s string) Industry {
	switch i := Industry(strings.ToLower(strings.TrimSpace(s))); i {
	case IndustryManufacturing, IndustryServices, IndustryTrading:
		return i
	}
	return IndustryOther
}

type GSTCompliance string

const (
	GSTExcellent GSTCompliance = "excellent"
	GSTGood      GSTCompliance = "good"
	GSTFair      GSTCompliance = "fair"
	GSTPoor      GSTCompliance = "poor"
	GSTUnknown   GSTCompliance = "unknown"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Factors are the derived inputs of the eligibility rubric.
type Factors struct {
	DSCR               *float64      `json:"dscr"`
	CurrentRatio       *float64      `json:"currentRatio"`
	DebtEquityRatio    *float64      `json:"debtEquityRatio"`
	CreditScore        *int          `json:"creditScore"`
	GSTCompliance      GSTCompliance `json:"gstCompliance"`
	BankingScore       int           `json:"bankingScore"`
	IndustryRiskFactor RiskLevel     `json:"industryRiskFactor"`
}

// DSCR is operating income over annualised debt service.
func DSCR(ebitda, monthlyEMI *float64) *float64 {
	if ebitda == nil || monthlyEMI == nil {
		return nil
	}
	return divide(*ebitda, *monthlyEMI*12)
}

func CurrentRatio(currentAssets, currentLiabilities *float64) *float64 {
	if currentAssets == nil || currentLiabilities == nil {
		return nil
	}
	return divide(*currentAssets, *currentLiabilities)
}

func DebtEquityRatio(totalLiabilities, netWorth *float64) *float64 {
	if totalLiabilities == nil || netWorth == nil {
		return nil
	}
	return divide(*totalLiabilities, *netWorth)
}

// BankingScore rates a bank statement on bounces, cash flow direction and average balance.
func BankingScore(bounces int, cashFlowPattern string, avgBalance *float64) int {
	score := 70 - 15*bounces

	switch strings.ToLower(strings.TrimSpace(cashFlowPattern)) {
	case documents.CashFlowPositive:
		score += 15
	case documents.CashFlowNegative:
		score -= 20
	}

	if avgBalance != nil {
		switch {
		case *avgBalance > 500000:
			score += 10
		case *avgBalance > 100000:
			score += 5
		case *avgBalance < 10000:
			score -= 10
		}
	}

	return clamp(score, 0, 100)
}

// Derive computes every factor from the document set.
func Derive(set documents.Set, industry Industry) Factors {
	f := Factors{
		DSCR:               DSCR(OperatingIncome(set), MonthlyDebtService(set)),
		GSTCompliance:      Compliance(set),
		BankingScore:       NeutralBankingScore,
		IndustryRiskFactor: IndustryRisk(industry),
	}

	if bs := set.BalanceSheet; bs != nil {
		f.CurrentRatio = CurrentRatio(amount(bs.CurrentAssets), amount(bs.CurrentLiabilities))
		f.DebtEquityRatio = DebtEquityRatio(amount(bs.TotalLiabilities), amount(bs.NetWorth))
	}
	if st := set.BankStatement; st != nil {
		f.BankingScore = BankingScore(st.ChequeBounces, st.CashFlowPattern, amount(st.AverageMonthlyBalance))
	}
	if cr := set.CIBILReport; cr != nil && cr.Score != nil {
		score := *cr.Score
		f.CreditScore = &score
	}
	return f
}

// OperatingIncome resolves to the P&L ebitda, then its net profit.
func OperatingIncome(set documents.Set) *float64 {
	if set.ProfitLoss == nil {
		return nil
	}
	return currency.First(string(set.ProfitLoss.EBITDA), string(set.ProfitLoss.NetProfit))
}

// MonthlyDebtService resolves to the bank statement's loan EMIs.
func MonthlyDebtService(set documents.Set) *float64 {
	if set.BankStatement == nil {
		return nil
	}
	return amount(set.BankStatement.LoanEMIs)
}

// Compliance resolves GST compliance: the recognised filing rating, "good" when a return is
// present without one, "unknown" without a return.
func Compliance(set documents.Set) GSTCompliance {
	if set.GSTReturns == nil {
		return GSTUnknown
	}
	switch c := GSTCompliance(strings.ToLower(strings.TrimSpace(set.GSTReturns.FilingRegularity))); c {
	case GSTExcellent, GSTGood, GSTFair, GSTPoor:
		return c
	}
	return GSTGood
}

func IndustryRisk(industry Industry) RiskLevel {
	switch industry {
	case IndustryServices:
		return RiskLow
	default:
		return RiskMedium
	}
}

func amount(a documents.Amount) *float64 {
	return currency.Parse(string(a))
}

func divide(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	return &r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
