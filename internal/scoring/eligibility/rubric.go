// internal/scoring/eligibility/rubric.go
package eligibility

import "loan-assessment-workers/internal/scoring/ratios"

// Tier awards Points when a value is at least Min. Tiers are checked in order.
type Tier struct {
	Min    float64
	Points int
}

// Multiplier applies Factor to a loan basis when the eligibility score is at least MinScore.
type Multiplier struct {
	MinScore int
	Factor   float64
}

// Rubric holds every weight and threshold of the eligibility decision.
type Rubric struct {
	CreditScoreMax      int
	CreditScoreTiers    []Tier
	CreditScoreFallback int

	DSCRMax   int
	DSCRTiers []Tier

	CurrentRatioMax   int
	CurrentRatioTiers []Tier

	BankingMax int

	GSTMax    int
	GSTPoints map[ratios.GSTCompliance]int

	IndustryMax    int
	IndustryPoints map[ratios.RiskLevel]int

	EligibilityThreshold int
	MaxRiskFlags         int

	CreditScoreFlagBelow  int
	DSCRFlagBelow         float64
	CurrentRatioFlagBelow float64
	MaxChequeBounces      int

	RevenueMultipliers        []Multiplier
	RevenueMultiplierFallback float64
	ProfitMultipliers         []Multiplier
	ProfitMultiplierFallback  float64
	LoanCapFactor             float64

	MinDocuments int
}

// DefaultRubric returns the calibrated rubric. Category maxima sum to 100.
func DefaultRubric() Rubric {
	return Rubric{
		CreditScoreMax: 25,
		CreditScoreTiers: []Tier{
			{Min: 750, Points: 25},
			{Min: 700, Points: 20},
			{Min: 650, Points: 15},
			{Min: 600, Points: 10},
		},
		CreditScoreFallback: 5,

		DSCRMax: 20,
		DSCRTiers: []Tier{
			{Min: 2.0, Points: 20},
			{Min: 1.5, Points: 16},
			{Min: 1.25, Points: 12},
			{Min: 1.0, Points: 8},
		},

		CurrentRatioMax: 15,
		CurrentRatioTiers: []Tier{
			{Min: 2.0, Points: 15},
			{Min: 1.5, Points: 12},
			{Min: 1.25, Points: 9},
			{Min: 1.0, Points: 6},
		},

		BankingMax: 20,

		GSTMax: 10,
		GSTPoints: map[ratios.GSTCompliance]int{
			ratios.GSTExcellent: 10,
			ratios.GSTGood:      8,
			ratios.GSTFair:      6,
			ratios.GSTPoor:      3,
			ratios.GSTUnknown:   5,
		},

		IndustryMax: 10,
		IndustryPoints: map[ratios.RiskLevel]int{
			ratios.RiskLow:    10,
			ratios.RiskMedium: 7,
			ratios.RiskHigh:   4,
		},

		EligibilityThreshold: 60,
		MaxRiskFlags:         3,

		CreditScoreFlagBelow:  650,
		DSCRFlagBelow:         1.25,
		CurrentRatioFlagBelow: 1.0,
		MaxChequeBounces:      2,

		RevenueMultipliers: []Multiplier{
			{MinScore: 80, Factor: 0.4},
			{MinScore: 70, Factor: 0.3},
		},
		RevenueMultiplierFallback: 0.2,
		ProfitMultipliers: []Multiplier{
			{MinScore: 80, Factor: 5},
			{MinScore: 70, Factor: 4},
		},
		ProfitMultiplierFallback: 3,
		LoanCapFactor:            1.2,

		MinDocuments: 4,
	}
}

func tierPoints(tiers []Tier, value float64, fallback int) int {
	for _, t := range tiers {
		if value >= t.Min {
			return t.Points
		}
	}
	return fallback
}

func multiplierFor(tiers []Multiplier, score int, fallback float64) float64 {
	for _, m := range tiers {
		if score >= m.MinScore {
			return m.Factor
		}
	}
	return fallback
}
