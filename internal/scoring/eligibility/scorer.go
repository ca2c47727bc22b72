// internal/scoring/eligibility/scorer.go

// Package eligibility turns a set of typed financial documents into a loan eligibility
// decision with a category breakdown, risk flags and a recommended maximum loan amount.
package eligibility

import (
	"fmt"
	"math"
	"strings"

	"loan-assessment-workers/internal/documents"
	"loan-assessment-workers/internal/scoring/currency"
	"loan-assessment-workers/internal/scoring/ratios"
)

const (
	CategoryCreditScore  = "Credit Score"
	CategoryDSCR         = "DSCR"
	CategoryCurrentRatio = "Current Ratio"
	CategoryBanking      = "Banking Relationship"
	CategoryGST          = "GST Compliance"
	CategoryIndustry     = "Industry Risk"
)

type CategoryBreakdown struct {
	Category string `json:"category"`
	Earned   int    `json:"earned"`
	Max      int    `json:"max"`
	Note     string `json:"note"`
}

type Result struct {
	Score           int                 `json:"score"`
	Eligible        bool                `json:"eligible"`
	MaxLoanAmount   float64             `json:"maxLoanAmount"`
	Factors         ratios.Factors      `json:"factors"`
	Breakdown       []CategoryBreakdown `json:"breakdown"`
	Recommendations []string            `json:"recommendations"`
	RiskFlags       []string            `json:"riskFlags"`
}

// Scorer applies a Rubric. It is safe for concurrent use.
type Scorer struct {
	rubric Rubric
}

func NewScorer(rubric Rubric) *Scorer {
	return &Scorer{rubric: rubric}
}

// Rubric returns a copy of the scorer's rubric.
func (s *Scorer) Rubric() Rubric { return s.rubric }

// Score evaluates docs for a loan of requestedLoanAmount in the given industry.
func (s *Scorer) Score(docs []documents.Document, requestedLoanAmount float64, industry ratios.Industry) Result {
	set := documents.Locate(docs)
	factors := ratios.Derive(set, industry)

	breakdown := []CategoryBreakdown{
		s.creditScoreCategory(factors.CreditScore),
		s.ratioCategory(CategoryDSCR, factors.DSCR, s.rubric.DSCRTiers, s.rubric.DSCRMax),
		s.ratioCategory(CategoryCurrentRatio, factors.CurrentRatio, s.rubric.CurrentRatioTiers, s.rubric.CurrentRatioMax),
		s.bankingCategory(factors.BankingScore, set.BankStatement != nil),
		s.gstCategory(factors.GSTCompliance),
		s.industryCategory(factors.IndustryRiskFactor),
	}

	earned, possible := 0, 0
	for _, b := range breakdown {
		earned += b.Earned
		possible += b.Max
	}
	score := 0
	if possible > 0 {
		score = int(math.Round(float64(earned) / float64(possible) * 100))
	}

	flags := s.riskFlags(factors, set.BankStatement)
	eligible := score >= s.rubric.EligibilityThreshold && len(flags) < s.rubric.MaxRiskFlags

	return Result{
		Score:           score,
		Eligible:        eligible,
		MaxLoanAmount:   s.maxLoanAmount(set.ProfitLoss, score, requestedLoanAmount),
		Factors:         factors,
		Breakdown:       breakdown,
		Recommendations: s.recommendations(len(docs), set, eligible, flags),
		RiskFlags:       flags,
	}
}

func (s *Scorer) creditScoreCategory(score *int) CategoryBreakdown {
	b := CategoryBreakdown{Category: CategoryCreditScore, Max: s.rubric.CreditScoreMax}
	if score == nil {
		b.Note = "No credit report provided"
		return b
	}
	b.Earned = bounded(tierPoints(s.rubric.CreditScoreTiers, float64(*score), s.rubric.CreditScoreFallback), b.Max)
	b.Note = fmt.Sprintf("Credit score %d", *score)
	return b
}

func (s *Scorer) ratioCategory(name string, value *float64, tiers []Tier, limit int) CategoryBreakdown {
	b := CategoryBreakdown{Category: name, Max: limit}
	if value == nil {
		b.Note = "Not available"
		return b
	}
	b.Earned = bounded(tierPoints(tiers, *value, 0), limit)
	b.Note = fmt.Sprintf("%s %.2f", name, *value)
	return b
}

func (s *Scorer) bankingCategory(bankingScore int, statement bool) CategoryBreakdown {
	b := CategoryBreakdown{Category: CategoryBanking, Max: s.rubric.BankingMax}
	b.Earned = bounded(int(math.Round(float64(bankingScore*s.rubric.BankingMax)/100)), b.Max)
	if statement {
		b.Note = fmt.Sprintf("Banking score %d", bankingScore)
	} else {
		b.Note = fmt.Sprintf("No bank statement, neutral banking score %d", bankingScore)
	}
	return b
}

func (s *Scorer) gstCategory(c ratios.GSTCompliance) CategoryBreakdown {
	return CategoryBreakdown{
		Category: CategoryGST,
		Earned:   bounded(s.rubric.GSTPoints[c], s.rubric.GSTMax),
		Max:      s.rubric.GSTMax,
		Note:     fmt.Sprintf("GST compliance %s", c),
	}
}

func (s *Scorer) industryCategory(r ratios.RiskLevel) CategoryBreakdown {
	return CategoryBreakdown{
		Category: CategoryIndustry,
		Earned:   bounded(s.rubric.IndustryPoints[r], s.rubric.IndustryMax),
		Max:      s.rubric.IndustryMax,
		Note:     fmt.Sprintf("Industry risk %s", r),
	}
}

func (s *Scorer) riskFlags(f ratios.Factors, statement *documents.BankStatement) []string {
	flags := []string{}
	if f.CreditScore != nil && *f.CreditScore < s.rubric.CreditScoreFlagBelow {
		flags = append(flags, fmt.Sprintf("Low credit score (%d)", *f.CreditScore))
	}
	if f.DSCR != nil && *f.DSCR < s.rubric.DSCRFlagBelow {
		flags = append(flags, fmt.Sprintf("Weak debt service coverage (DSCR %.2f)", *f.DSCR))
	}
	if f.CurrentRatio != nil && *f.CurrentRatio < s.rubric.CurrentRatioFlagBelow {
		flags = append(flags, fmt.Sprintf("Low liquidity (current ratio %.2f)", *f.CurrentRatio))
	}
	if statement != nil && statement.ChequeBounces > s.rubric.MaxChequeBounces {
		flags = append(flags, fmt.Sprintf("Frequent cheque bounces (%d)", statement.ChequeBounces))
	}
	return flags
}

// maxLoanAmount bases the loan on revenue, then on net profit, and caps it relative to the request.
func (s *Scorer) maxLoanAmount(pl *documents.ProfitLoss, score int, requested float64) float64 {
	if pl == nil {
		return 0
	}

	amount := 0.0
	if revenue := currency.Parse(string(pl.Revenue)); revenue != nil {
		amount = *revenue * multiplierFor(s.rubric.RevenueMultipliers, score, s.rubric.RevenueMultiplierFallback)
	} else if profit := currency.Parse(string(pl.NetProfit)); profit != nil {
		amount = *profit * multiplierFor(s.rubric.ProfitMultipliers, score, s.rubric.ProfitMultiplierFallback)
	}

	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	if requested > 0 {
		amount = math.Min(amount, requested*s.rubric.LoanCapFactor)
	}
	return amount
}

// recommendations asks for more documents when fewer than MinDocuments were supplied,
// counting every supplied document including repeats and unknown types.
func (s *Scorer) recommendations(supplied int, set documents.Set, eligible bool, flags []string) []string {
	recs := []string{}
	if supplied < s.rubric.MinDocuments {
		missing := make([]string, 0, len(documents.Types))
		present := make(map[documents.Type]bool)
		for _, t := range set.Present() {
			present[t] = true
		}
		for _, t := range documents.Types {
			if !present[t] {
				missing = append(missing, strings.ReplaceAll(string(t), "_", " "))
			}
		}
		msg := "Provide more documents for a complete assessment"
		if len(missing) > 0 {
			msg += fmt.Sprintf(" (missing: %s)", strings.Join(missing, ", "))
		}
		recs = append(recs, msg)
	}
	if eligible && len(flags) > 0 {
		recs = append(recs, "Address the flagged issues before disbursement: "+strings.Join(flags, "; "))
	}
	return recs
}

func bounded(points, limit int) int {
	if points < 0 {
		return 0
	}
	if points > limit {
		return limit
	}
	return points
}
