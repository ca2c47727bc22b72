// internal/scoring/creditreport/creditreport.go

// Package creditreport pulls structured facts out of credit bureau report text:
// headline score, report sections, payment-history delay buckets, loan types, enquiries
// and per-account records.
package creditreport

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"loan-assessment-workers/internal/documents"
)

// Section is a recognised part of a credit report.
type Section string

const (
	SectionSummary        Section = "summary"
	SectionAccountDetails Section = "account_details"
	SectionEnquirySummary Section = "enquiry_summary"
	SectionPaymentHistory Section = "payment_history"
)

const (
	MinScore = 300
	MaxScore = 900
)

var sectionOrder = []Section{SectionSummary, SectionAccountDetails, SectionEnquirySummary, SectionPaymentHistory}

var (
	sectionPatterns = map[Section]*regexp.Regexp{
		SectionSummary:        regexp.MustCompile(`(?i)(?:credit|report|score)\s*summary|consumer\s*credit\s*report|credit\s*profile\s*summary`),
		SectionAccountDetails: regexp.MustCompile(`(?i)account\s*(?:details|information|summary)|credit\s*(?:accounts|facilities)|loan\s*(?:details|accounts)`),
		SectionEnquirySummary: regexp.MustCompile(`(?i)enquir(?:y|ies)\s*summary|credit\s*enquir(?:y|ies)|recent\s*enquir(?:y|ies)`),
		SectionPaymentHistory: regexp.MustCompile(`(?i)payment\s*history|repayment\s*(?:history|track\s*record)`),
	}

	scorePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:cibil\s*)?(?:credit\s*)?score\s*(?:is\s*)?:?\s*(\d{3})\b`),
		regexp.MustCompile(`(?i)\b(\d{3})\s*(?:cibil|credit|score)`),
	}

	// Asset classification codes are upper case in bureau output.
	dpdPattern = regexp.MustCompile(`\b(0|30|60|90|120|150|180|XXX|STD|SMA|SUB|DBT|LSS)\b`)

	loanTypePattern      = regexp.MustCompile(`(?i)\b((?:personal|home|car|auto|education|business|gold|two\s*wheeler|property)\s*loan|credit\s*card|overdraft)\b`)
	accountStatusPattern = regexp.MustCompile(`(?i)(?:account\s*status|status)\s*:?\s*(active|closed|settled|written\s*off|suit\s*filed|default)|\b(active|closed|settled|written\s*off|suit\s*filed|default)\s*account`)
	enquiryCountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:total\s*)?(?:number\s*of\s*)?enquir(?:y|ies)\s*:?\s*(\d+)`),
		regexp.MustCompile(`(?i)(\d+)\s*enquir(?:y|ies)\s*(?:in|during)`),
	}
	activeAccountsPattern  = regexp.MustCompile(`(?i)active\s*accounts?\s*:?\s*(\d+)`)
	overdueAccountsPattern = regexp.MustCompile(`(?i)overdue\s*accounts?\s*:?\s*(\d+)`)
	reportDatePattern      = regexp.MustCompile(`(?i)(?:report\s*date|date\s*of\s*report)\s*:?\s*(\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4})`)
	whitespace             = regexp.MustCompile(`\s+`)
)

// PaymentHistory buckets DPD tokens found in the report.
type PaymentHistory struct {
	OnTime         int `json:"onTime"`
	Late30         int `json:"late30"`
	Late60         int `json:"late60"`
	Late90         int `json:"late90"`
	Late120Plus    int `json:"late120Plus"`
	TotalDelays    int `json:"totalDelays"`
	BehaviourScore int `json:"behaviourScore"`
}

// Summary is the structured view of one credit report.
type Summary struct {
	Score           *int           `json:"score"`
	ReportDate      string         `json:"reportDate,omitempty"`
	Sections        []Section      `json:"sections"`
	PaymentHistory  PaymentHistory `json:"paymentHistory"`
	LoanTypes       []string       `json:"loanTypes"`
	AccountStatuses []string       `json:"accountStatuses"`
	ActiveAccounts  *int           `json:"activeAccounts,omitempty"`
	OverdueAccounts *int           `json:"overdueAccounts,omitempty"`
	EnquiryCount    *int           `json:"enquiryCount"`
	Accounts        []Account      `json:"accounts"`
	Quality         Quality        `json:"quality"`
}

// Extract builds a Summary from report text. It never fails; absent facts stay empty.
func Extract(text string) Summary {
	s := Summary{
		Score:           findScore(text),
		Sections:        []Section{},
		LoanTypes:       []string{},
		AccountStatuses: []string{},
		ActiveAccounts:  firstInt(text, activeAccountsPattern),
		OverdueAccounts: firstInt(text, overdueAccountsPattern),
		EnquiryCount:    firstInt(text, enquiryCountPatterns...),
	}
	if m := reportDatePattern.FindStringSubmatch(text); m != nil {
		s.ReportDate = m[1]
	}

	starts := make(map[Section]int)
	for _, sec := range sectionOrder {
		if loc := sectionPatterns[sec].FindStringIndex(text); loc != nil {
			s.Sections = append(s.Sections, sec)
			starts[sec] = loc[0]
		}
	}

	s.PaymentHistory = paymentHistory(paymentText(text, starts))
	s.LoanTypes = distinctMatches(text, loanTypePattern)
	s.AccountStatuses = distinctMatches(text, accountStatusPattern)
	s.Accounts = extractAccounts(text)
	s.Quality = quality(s)
	return s
}

// Document converts the summary into a cibil_report document for the eligibility scorer.
func (s Summary) Document() documents.Document {
	return documents.New(&documents.CIBILReport{
		Score:           s.Score,
		ReportDate:      s.ReportDate,
		ActiveAccounts:  s.ActiveAccounts,
		OverdueAccounts: s.OverdueAccounts,
	})
}

func findScore(text string) *int {
	for _, re := range scorePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := strconv.Atoi(m[1])
			if err == nil && v >= MinScore && v <= MaxScore {
				return &v
			}
		}
	}
	return nil
}

// paymentText narrows DPD scanning to the payment history section when there is one.
func paymentText(text string, starts map[Section]int) string {
	begin, ok := starts[SectionPaymentHistory]
	if !ok {
		return text
	}
	end := len(text)
	for sec, at := range starts {
		if sec != SectionPaymentHistory && at > begin && at < end {
			end = at
		}
	}
	section := text[begin:end]
	if !dpdPattern.MatchString(section) {
		return text
	}
	return section
}

func paymentHistory(text string) PaymentHistory {
	var ph PaymentHistory
	for _, token := range dpdPattern.FindAllString(text, -1) {
		switch token {
		case "0":
			ph.OnTime++
		case "30":
			ph.Late30++
		case "60":
			ph.Late60++
		case "90":
			ph.Late90++
		default:
			ph.Late120Plus++
		}
	}
	ph.TotalDelays = ph.Late30 + ph.Late60 + ph.Late90 + ph.Late120Plus
	if total := ph.OnTime + ph.TotalDelays; total > 0 {
		ph.BehaviourScore = ph.OnTime * 100 / total
	}
	return ph
}

func firstInt(text string, patterns ...*regexp.Regexp) *int {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return &v
			}
		}
	}
	return nil
}

// distinctMatches returns the normalized first non-empty capture of every match, deduplicated
// and sorted.
func distinctMatches(text string, re *regexp.Regexp) []string {
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		for _, group := range m[1:] {
			if group == "" {
				continue
			}
			seen[whitespace.ReplaceAllString(strings.ToLower(group), " ")] = true
			break
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
