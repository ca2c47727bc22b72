// internal/scoring/currency/currency.go

// Package currency turns locale-formatted amount strings ("₹15.50 L", "Rs. 1,20,000/-")
// into numbers. A nil result is the only failure signal; callers propagate it.
package currency

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	amountPattern = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+))(thousand|k|lakhs?|lacs?|l|crores?|cr)?$`)

	// Longest tokens first so "rs." is not left with a trailing dot.
	currencyPrefixes = []string{"₹", "rs.", "rs", "inr", "$"}

	notAvailable = map[string]bool{
		"n/a": true,
		"na":  true,
		"-":   true,
		"nil": true,
	}

	multipliers = map[string]decimal.Decimal{
		"thousand": decimal.NewFromInt(1_000),
		"k":        decimal.NewFromInt(1_000),
		"lakh":     decimal.NewFromInt(100_000),
		"lakhs":    decimal.NewFromInt(100_000),
		"lac":      decimal.NewFromInt(100_000),
		"lacs":     decimal.NewFromInt(100_000),
		"l":        decimal.NewFromInt(100_000),
		"crore":    decimal.NewFromInt(10_000_000),
		"crores":   decimal.NewFromInt(10_000_000),
		"cr":       decimal.NewFromInt(10_000_000),
	}
)

// Parse returns the numeric value of an amount string, or nil when the string is
// empty, marked not-available, or does not reduce to a number.
func Parse(value string) *float64 {
	cleaned := normalize(value)
	if cleaned == "" || notAvailable[cleaned] {
		return nil
	}

	m := amountPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return nil
	}

	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return nil
	}
	if mult, ok := multipliers[m[2]]; ok {
		amount = amount.Mul(mult)
	}

	f, _ := amount.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

// ParsePtr is Parse for optional fields.
func ParsePtr(value *string) *float64 {
	if value == nil {
		return nil
	}
	return Parse(*value)
}

// First returns the first value in order that parses.
func First(values ...string) *float64 {
	for _, v := range values {
		if parsed := Parse(v); parsed != nil {
			return parsed
		}
	}
	return nil
}

func normalize(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	if notAvailable[s] {
		return s
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '\t', '\n', '\r', '\u00a0':
			return -1
		}
		return r
	}, s)

	s = strings.TrimSuffix(s, "/-")

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimPrefix(s, p)
			break
		}
	}
	return sign + s
}
