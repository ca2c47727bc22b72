// internal/scoring/ratios/ratios_test.go
package ratios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-assessment-workers/internal/documents"
)

func ptr(v float64) *float64 { return &v }

func TestDSCR(t *testing.T) {
	tests := []struct {
		name     string
		ebitda   *float64
		emi      *float64
		expected *float64
	}{
		{name: "normal", ebitda: ptr(1200000), emi: ptr(50000), expected: ptr(2.0)},
		{name: "zero emi", ebitda: ptr(1000000), emi: ptr(0), expected: nil},
		{name: "missing ebitda", ebitda: nil, emi: ptr(10000), expected: nil},
		{name: "missing emi", ebitda: ptr(10000), emi: nil, expected: nil},
		{name: "negative income", ebitda: ptr(-120000), emi: ptr(10000), expected: ptr(-1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DSCR(tt.ebitda, tt.emi)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-9)
		})
	}
}

func TestCurrentRatio(t *testing.T) {
	got := CurrentRatio(ptr(500000), ptr(250000))
	require.NotNil(t, got)
	assert.Equal(t, 2.0, *got)

	assert.Nil(t, CurrentRatio(ptr(500000), ptr(0)))
	assert.Nil(t, CurrentRatio(nil, ptr(1)))
	assert.Nil(t, CurrentRatio(ptr(1), nil))
}

func TestDebtEquityRatio(t *testing.T) {
	got := DebtEquityRatio(ptr(300000), ptr(600000))
	require.NotNil(t, got)
	assert.Equal(t, 0.5, *got)

	assert.Nil(t, DebtEquityRatio(ptr(300000), ptr(0)))
	assert.Nil(t, DebtEquityRatio(nil, ptr(600000)))
}

func TestBankingScore(t *testing.T) {
	tests := []struct {
		name     string
		bounces  int
		pattern  string
		balance  *float64
		expected int
	}{
		{name: "baseline", bounces: 0, pattern: "", balance: nil, expected: 70},
		{name: "positive high balance", bounces: 0, pattern: "positive", balance: ptr(600000), expected: 95},
		{name: "stable mid balance", bounces: 1, pattern: "stable", balance: ptr(200000), expected: 60},
		{name: "negative low balance", bounces: 2, pattern: "negative", balance: ptr(5000), expected: 10},
		{name: "balance between tiers", bounces: 0, pattern: "stable", balance: ptr(50000), expected: 70},
		{name: "exactly 500000 takes lower tier", bounces: 0, pattern: "", balance: ptr(500000), expected: 75},
		{name: "case insensitive pattern", bounces: 0, pattern: " Positive ", balance: nil, expected: 85},
		{name: "many bounces clamp to zero", bounces: 10, pattern: "negative", balance: ptr(0), expected: 0},
		{name: "ten bounces with best signals", bounces: 10, pattern: "positive", balance: ptr(1e9), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BankingScore(tt.bounces, tt.pattern, tt.balance)
			assert.Equal(t, tt.expected, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestBankingScore_Bounds(t *testing.T) {
	for bounces := -10; bounces <= 10; bounces++ {
		for _, pattern := range []string{"positive", "negative", "stable", ""} {
			got := BankingScore(bounces, pattern, ptr(1e7))
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}

func TestDerive(t *testing.T) {
	set := documents.Locate([]documents.Document{
		documents.New(&documents.BalanceSheet{
			CurrentAssets:      "₹500000",
			CurrentLiabilities: "₹250000",
			TotalLiabilities:   "₹3 L",
			NetWorth:           "₹6 L",
		}),
		documents.New(&documents.ProfitLoss{Revenue: "₹1 Cr", NetProfit: "₹12 L"}),
		documents.New(&documents.BankStatement{ChequeBounces: 0, CashFlowPattern: "positive", LoanEMIs: "₹50,000", AverageMonthlyBalance: "₹2 L"}),
		documents.New(&documents.GSTReturns{FilingRegularity: "Excellent"}),
		documents.New(&documents.CIBILReport{Score: documents.IntPtr(780)}),
	})

	f := Derive(set, IndustryServices)

	require.NotNil(t, f.CurrentRatio)
	assert.Equal(t, 2.0, *f.CurrentRatio)
	require.NotNil(t, f.DebtEquityRatio)
	assert.Equal(t, 0.5, *f.DebtEquityRatio)
	// no ebitda, net profit 12 L over 50,000 * 12
	require.NotNil(t, f.DSCR)
	assert.Equal(t, 2.0, *f.DSCR)
	require.NotNil(t, f.CreditScore)
	assert.Equal(t, 780, *f.CreditScore)
	assert.Equal(t, GSTExcellent, f.GSTCompliance)
	assert.Equal(t, 90, f.BankingScore)
	assert.Equal(t, RiskLow, f.IndustryRiskFactor)
}

func TestDerive_NoDocuments(t *testing.T) {
	f := Derive(documents.Set{}, IndustryManufacturing)

	assert.Nil(t, f.DSCR)
	assert.Nil(t, f.CurrentRatio)
	assert.Nil(t, f.DebtEquityRatio)
	assert.Nil(t, f.CreditScore)
	assert.Equal(t, GSTUnknown, f.GSTCompliance)
	assert.Equal(t, NeutralBankingScore, f.BankingScore)
	assert.Equal(t, RiskMedium, f.IndustryRiskFactor)
}

func TestOperatingIncome_PrefersEBITDA(t *testing.T) {
	set := documents.Set{ProfitLoss: &documents.ProfitLoss{EBITDA: "900000", NetProfit: "400000"}}
	got := OperatingIncome(set)
	require.NotNil(t, got)
	assert.Equal(t, 900000.0, *got)

	set.ProfitLoss.EBITDA = "N/A"
	got = OperatingIncome(set)
	require.NotNil(t, got)
	assert.Equal(t, 400000.0, *got)

	assert.Nil(t, OperatingIncome(documents.Set{}))
}

func TestCompliance(t *testing.T) {
	assert.Equal(t, GSTUnknown, Compliance(documents.Set{}))
	assert.Equal(t, GSTGood, Compliance(documents.Set{GSTReturns: &documents.GSTReturns{}}))
	assert.Equal(t, GSTGood, Compliance(documents.Set{GSTReturns: &documents.GSTReturns{FilingRegularity: "sporadic"}}))
	assert.Equal(t, GSTPoor, Compliance(documents.Set{GSTReturns: &documents.GSTReturns{FilingRegularity: "POOR"}}))
}

func TestIndustry(t *testing.T) {
	assert.Equal(t, IndustryServices, ParseIndustry(" Services "))
	assert.Equal(t, IndustryOther, ParseIndustry("fintech"))
	assert.Equal(t, IndustryOther, ParseIndustry(""))

	assert.Equal(t, RiskMedium, IndustryRisk(IndustryManufacturing))
	assert.Equal(t, RiskLow, IndustryRisk(IndustryServices))
	assert.Equal(t, RiskMedium, IndustryRisk(IndustryTrading))
	assert.Equal(t, RiskMedium, IndustryRisk(IndustryOther))
}
