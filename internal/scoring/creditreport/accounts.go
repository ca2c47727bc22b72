// internal/scoring/creditreport/accounts.go
package creditreport

import (
	"regexp"
	"strings"

	"loan-assessment-workers/internal/scoring/currency"
)

// maxAccountHistory bounds per-account payment history to the bureau's 24-month window.
const maxAccountHistory = 24

// Account is one credit facility reported by the bureau.
type Account struct {
	Number           string   `json:"accountNumber"`
	Lender           string   `json:"lender,omitempty"`
	LoanType         string   `json:"loanType,omitempty"`
	SanctionedAmount *float64 `json:"sanctionedAmount,omitempty"`
	CurrentBalance   *float64 `json:"currentBalance,omitempty"`
	OverdueAmount    *float64 `json:"overdueAmount,omitempty"`
	Status           string   `json:"status,omitempty"`
	OpenedOn         string   `json:"openedOn,omitempty"`
	LastPaymentOn    string   `json:"lastPaymentOn,omitempty"`
	PaymentHistory   []string `json:"paymentHistory"`
}

// Quality rates how much of a report could be turned into structured data, each value in [0,1].
type Quality struct {
	// Completeness is the share of score, account records and account count that were found.
	Completeness float64 `json:"completeness"`
	// AccountCompleteness is the share of accounts with number, lender and loan type.
	AccountCompleteness float64 `json:"accountCompleteness"`
	Overall             float64 `json:"overall"`
}

const amountCapture = `((?:rs\.?|₹|inr)?\s*\d[\d,]*(?:\.\d+)?(?: ?(?:lakhs?|lacs?|crores?|cr|k|l)\b)?)`

var (
	// Identifier labels that open an account entry, by kind.
	accountSeparators = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:account|loan|card)\s*(?:no|number)\b|\ba/c\s*no\b`),
		regexp.MustCompile(`(?i)\b(?:member|bank)\s*name\b`),
	}

	accountNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:account\s*(?:no|number)|a/c\s*no)\.?\s*:?\s*([A-Z0-9]{8,25})\b`),
		regexp.MustCompile(`(?i)loan\s*(?:no|number)\.?\s*:?\s*([A-Z0-9]{8,25})\b`),
		regexp.MustCompile(`(?i)card\s*(?:no|number)\.?\s*:?\s*([A-Z0-9]{8,25})\b`),
	}
	lenderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:bank\s*name|member\s*name|lender|institution)\s*:?\s*([A-Z][A-Za-z &.]*(?:bank|financial|finance|nbfc|ltd|limited))\b`),
	}
	loanTypeFieldPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:loan|account|facility)\s*type\s*:?\s*([A-Za-z][A-Za-z ]*[A-Za-z])`),
		loanTypePattern,
	}
	sanctionedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:sanctioned|approved|credit\s*limit)\s*(?:amount)?\s*:?\s*` + amountCapture),
		regexp.MustCompile(`(?i)\b(?:limit|principal)\s*(?:amount)?\s*:?\s*` + amountCapture),
	}
	balancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:current\s*balance|outstanding)\s*(?:amount)?\s*:?\s*` + amountCapture),
		regexp.MustCompile(`(?i)\b(?:balance|dues)\s*(?:amount)?\s*:?\s*` + amountCapture),
	}
	overduePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:overdue|past\s*due)\s*(?:amount)?\s*:?\s*` + amountCapture),
		regexp.MustCompile(`(?i)\b(?:arrears|default)\s*(?:amount)?\s*:?\s*` + amountCapture),
	}
	openedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:opened|opening|start)\s*(?:date|on)?\s*:?\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
		regexp.MustCompile(`(?i)\b(?:from|since)\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
	}
	lastPaymentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:last|recent)\s*payment\s*(?:date)?\s*:?\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
		regexp.MustCompile(`(?i)(?:paid|payment)\s*on\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
	}
	// Per-account history sits on the labelled line itself.
	accountHistoryPattern = regexp.MustCompile(`(?i)(?:payment[ \t]*history|dpd)[ \t]*:?([^\n]*)`)
)

// extractAccounts reads one Account per account block, keeping the first block for each
// account number. Blocks without an account number are not accounts.
func extractAccounts(text string) []Account {
	accounts := []Account{}
	seen := make(map[string]bool)
	for _, block := range accountBlocks(text) {
		number := strings.ToUpper(firstCapture(block, accountNumberPatterns...))
		if number == "" || seen[number] {
			continue
		}
		seen[number] = true

		a := Account{
			Number:           number,
			Lender:           firstCapture(block, lenderPatterns...),
			LoanType:         normalizeLabel(firstCapture(block, loanTypeFieldPatterns...)),
			SanctionedAmount: currency.Parse(firstCapture(block, sanctionedPatterns...)),
			CurrentBalance:   currency.Parse(firstCapture(block, balancePatterns...)),
			OverdueAmount:    currency.Parse(firstCapture(block, overduePatterns...)),
			OpenedOn:         firstCapture(block, openedPatterns...),
			LastPaymentOn:    firstCapture(block, lastPaymentPatterns...),
			PaymentHistory:   accountHistory(block),
		}
		if m := accountStatusPattern.FindStringSubmatch(block); m != nil {
			for _, group := range m[1:] {
				if group != "" {
					a.Status = normalizeLabel(group)
					break
				}
			}
		}
		accounts = append(accounts, a)
	}
	return accounts
}

// accountBlocks splits text into account blocks. A block ends when a line repeats an
// identifier kind the block already has, so one entry may carry both its account number
// and its lender line. Text with at most one block comes back whole.
func accountBlocks(text string) []string {
	var blocks []string
	var current strings.Builder
	labelled := make([]bool, len(accountSeparators))
	for _, line := range strings.Split(text, "\n") {
		var kinds []int
		repeated := false
		for kind, re := range accountSeparators {
			if re.MatchString(line) {
				kinds = append(kinds, kind)
				repeated = repeated || labelled[kind]
			}
		}
		if repeated && strings.TrimSpace(current.String()) != "" {
			blocks = append(blocks, strings.TrimSpace(current.String()))
			current.Reset()
			labelled = make([]bool, len(accountSeparators))
		}
		for _, kind := range kinds {
			labelled[kind] = true
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		blocks = append(blocks, rest)
	}
	if len(blocks) <= 1 {
		return []string{text}
	}
	return blocks
}

func accountHistory(block string) []string {
	history := []string{}
	for _, m := range accountHistoryPattern.FindAllStringSubmatch(block, -1) {
		history = append(history, dpdPattern.FindAllString(m[1], -1)...)
	}
	if len(history) > maxAccountHistory {
		history = history[:maxAccountHistory]
	}
	return history
}

func quality(s Summary) Quality {
	var q Quality
	found := 0
	if s.Score != nil {
		found++
	}
	if len(s.Accounts) > 0 {
		found++
	}
	if s.ActiveAccounts != nil {
		found++
	}
	q.Completeness = float64(found) / 3

	if len(s.Accounts) > 0 {
		complete := 0
		for _, a := range s.Accounts {
			if a.Number != "" && a.Lender != "" && a.LoanType != "" {
				complete++
			}
		}
		q.AccountCompleteness = float64(complete) / float64(len(s.Accounts))
	}

	q.Overall = q.Completeness*0.4 + q.AccountCompleteness*0.6
	return q
}

func firstCapture(text string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func normalizeLabel(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}
