// internal/scoring/classifier/classifier_test.go
package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultCreditReportVocabulary(), DefaultOptions())
}

// ==========================
// Classify
// ==========================

func TestClassify_EndToEndCreditReport(t *testing.T) {
	c := newTestClassifier()
	text := "Your CIBIL Score: 750 as per TransUnion CIBIL Report, Account Details, Payment History"

	v := c.Assess(text)

	assert.True(t, v.IsMatch)
	assert.GreaterOrEqual(t, v.Confidence, 40)
	assert.LessOrEqual(t, v.Confidence, 100)
	assert.Contains(t, v.Reasons, "valid credit score 750 (+20)")
	assert.Contains(t, v.Reasons, "required elements found")
}

func TestClassify_EmptyText(t *testing.T) {
	c := newTestClassifier()

	for _, text := range []string{"", "   ", "\n\t  \n"} {
		v := c.Assess(text)
		assert.False(t, v.IsMatch)
		assert.Equal(t, 0, v.Confidence)
		assert.Equal(t, []string{"empty or invalid text"}, v.Reasons)
		assert.Equal(t, "1.0", v.VersionTag)
		assert.Equal(t, FormatStandard, v.FormatTag)
	}
}

func TestClassify_ConfidenceBounds(t *testing.T) {
	c := newTestClassifier()
	texts := []string{
		"hello world",
		"balance sheet profit and loss bank statement gst return tax invoice salary slip",
		strings.Repeat("CIBIL TransUnion credit score: 800 account summary enquiry summary payment history DPD ", 50),
		"score: 123",
	}

	for _, text := range texts {
		for _, v := range []Verdict{c.Classify(text), c.Assess(text)} {
			assert.GreaterOrEqual(t, v.Confidence, 0)
			assert.LessOrEqual(t, v.Confidence, 100)
			assert.Equal(t, v.Confidence >= 40, v.IsMatch)
		}
	}
}

func TestClassify_Monotonic(t *testing.T) {
	c := newTestClassifier()
	additions := []string{"account", "overdue", "enquiry", "payment history", "transunion", "cibil", "score: 780"}

	text := "report for member"
	prev := c.Classify(text).Confidence
	for _, add := range additions {
		text += " " + add
		got := c.Classify(text).Confidence
		assert.GreaterOrEqual(t, got, prev, "adding %q lowered confidence", add)
		prev = got
	}
	assert.Equal(t, 100, prev)
}

func TestClassify_Bonuses(t *testing.T) {
	c := newTestClassifier()

	v := c.Classify("cibil overdue member name")
	// 15 + 5 + 5 keywords, +10 for three keyword hits
	assert.Equal(t, 35, v.Confidence)
	assert.False(t, v.IsMatch)
	assert.Contains(t, v.Reasons, "multiple keyword matches (+10)")

	v = c.Classify("Account Summary / Enquiries Summary")
	assert.Contains(t, v.Reasons, "pattern account_summary matched (+10)")
	assert.Contains(t, v.Reasons, "pattern enquiry_summary matched (+10)")
	assert.Contains(t, v.Reasons, "multiple pattern matches (+15)")
}

func TestClassify_ScoreValidation(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name  string
		text  string
		bonus bool
	}{
		{name: "in range", text: "score: 720", bonus: true},
		{name: "score is", text: "your score is 655", bonus: true},
		{name: "lower bound", text: "score 300", bonus: true},
		{name: "upper bound", text: "score - 900", bonus: true},
		{name: "above range", text: "score: 950", bonus: false},
		{name: "below range", text: "score: 120", bonus: false},
		{name: "no label", text: "750", bonus: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(tt.text)
			if tt.bonus {
				assert.Equal(t, 20, v.Confidence)
			} else {
				assert.Equal(t, 0, v.Confidence)
			}
		})
	}
}

func TestClassify_Version(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		text     string
		expected string
	}{
		{text: "CIBIL Report Version: 3.1", expected: "3.1"},
		{text: "cibil version v2.4.1", expected: "2.4.1"},
		{text: "CIR v4 issued today", expected: "4"},
		{text: "cibil report in the new format", expected: "2.0"},
		{text: "this is an updated report", expected: "2.0"},
		{text: "cibil report", expected: "1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.text).VersionTag)
		})
	}
}

func TestClassify_Format(t *testing.T) {
	c := newTestClassifier()

	structured := strings.Repeat("word ", 2100) +
		"section section section section account account account account account loans"

	tests := []struct {
		name     string
		text     string
		expected Format
	}{
		{name: "detailed indicator", text: "Detailed Credit Report for member", expected: FormatDetailed},
		{name: "summary indicator", text: "credit summary", expected: FormatSummary},
		{name: "detailed wins over summary", text: "comprehensive report with score summary", expected: FormatDetailed},
		{name: "short text", text: "cibil score 700", expected: FormatSummary},
		{name: "medium text", text: strings.Repeat("lorem ", 600), expected: FormatStandard},
		{name: "structural detailed", text: structured, expected: FormatDetailed},
		{name: "long without markers", text: strings.Repeat("word ", 2100), expected: FormatStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.text).FormatTag)
		})
	}
}

func TestClassify_Truncation(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxInputBytes = 16
	c := NewClassifier(nil, opts)

	v := c.Classify("cibil " + strings.Repeat("x", 100) + " transunion")

	require.NotEmpty(t, v.Reasons)
	assert.Equal(t, "input truncated to 16 bytes", v.Reasons[0])
	assert.Equal(t, 15, v.Confidence)
}

func TestTruncate_RuneBoundary(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxInputBytes = 4
	c := NewClassifier(nil, opts)

	got, truncated := c.Truncate("₹₹₹₹")
	assert.True(t, truncated)
	assert.Equal(t, "₹", got)
}

func TestClassify_ThresholdOverride(t *testing.T) {
	opts := DefaultOptions()
	opts.MatchThreshold = 20
	c := NewClassifier(nil, opts)

	v := c.Classify("cibil account")
	assert.Equal(t, 20, v.Confidence)
	assert.True(t, v.IsMatch)
}

// ==========================
// Validate
// ==========================

func TestValidate(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name       string
		text       string
		confidence int
		expected   int
		match      bool
		reason     string
	}{
		{
			name:       "false positives offset by anchors",
			text:       "cibil credit score bank statement balance sheet",
			confidence: 50,
			expected:   35,
			match:      false,
			reason:     "required elements found",
		},
		{
			name:       "floor at zero",
			text:       "bank statement balance sheet tax invoice",
			confidence: 5,
			expected:   0,
			match:      false,
			reason:     `false positive "tax invoice" (-10)`,
		},
		{
			name:       "cap at hundred",
			text:       "cibil account",
			confidence: 100,
			expected:   100,
			match:      true,
			reason:     "required elements found",
		},
		{
			name:       "single anchor earns nothing",
			text:       "cibil only",
			confidence: 42,
			expected:   42,
			match:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Verdict{
				IsMatch:    tt.confidence >= 40,
				Confidence: tt.confidence,
				VersionTag: "1.0",
				FormatTag:  FormatSummary,
				Reasons:    []string{"seed"},
			}

			out := c.Validate(tt.text, in)

			assert.Equal(t, tt.expected, out.Confidence)
			assert.Equal(t, tt.match, out.IsMatch)
			if tt.reason != "" {
				assert.Contains(t, out.Reasons, tt.reason)
			}
			assert.Equal(t, []string{"seed"}, in.Reasons)
			assert.Equal(t, tt.confidence, in.Confidence)
		})
	}
}

// ==========================
// Vocabulary
// ==========================

func TestDefaultCreditReportVocabulary(t *testing.T) {
	require.NotPanics(t, func() { DefaultCreditReportVocabulary() })
	v := DefaultCreditReportVocabulary()
	assert.Equal(t, "cibil_report", v.Name())
	assert.NotEmpty(t, v.keywords)
	assert.NotEmpty(t, v.patterns)
	require.NotNil(t, v.score)
	assert.Equal(t, 300, v.score.min)
	assert.Equal(t, 900, v.score.max)
}

func TestNewVocabulary_CustomDomain(t *testing.T) {
	vocab, err := NewVocabulary(Definition{
		Name:     "gst_return",
		Keywords: []WeightedTerm{{Term: "GSTIN", Weight: 30}, {Term: "GSTR-3B", Weight: 15}},
		Patterns: []PatternDef{{ID: "gstin", Regex: `\b\d{2}[a-z]{5}\d{4}[a-z]\d[a-z\d]{2}\b`}},
	})
	require.NoError(t, err)

	c := NewClassifier(vocab, DefaultOptions())
	v := c.Classify("GSTIN: 27AAPFU0939F1ZV filed GSTR-3B")

	assert.Equal(t, 55, v.Confidence)
	assert.True(t, v.IsMatch)
	assert.Equal(t, "1.0", v.VersionTag)
}

func TestNewVocabulary_Errors(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{name: "bad pattern", def: Definition{Patterns: []PatternDef{{ID: "x", Regex: "("}}}},
		{name: "zero weight", def: Definition{Keywords: []WeightedTerm{{Term: "cibil", Weight: 0}}}},
		{name: "empty keyword", def: Definition{Keywords: []WeightedTerm{{Term: "  ", Weight: 5}}}},
		{name: "version without group", def: Definition{VersionPatterns: []string{`version \d+`}}},
		{name: "inverted score range", def: Definition{ScoreValidation: &ScoreValidation{Pattern: `score (\d{3})`, Min: 900, Max: 300}}},
		{name: "score without group", def: Definition{ScoreValidation: &ScoreValidation{Pattern: `score \d{3}`, Min: 300, Max: 900}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVocabulary(tt.def)
			assert.Error(t, err)
		})
	}
}

func TestParseVocabulary(t *testing.T) {
	data := []byte(`
name: itr
keywords:
  - term: assessment year
    weight: 12
anchor_terms: [pan, assessment year]
`)
	vocab, err := ParseVocabulary(data)
	require.NoError(t, err)
	assert.Equal(t, "itr", vocab.Name())

	_, err = ParseVocabulary([]byte("keywords: [oops"))
	assert.Error(t, err)

	_, err = LoadVocabularyFile("does/not/exist.yaml")
	assert.Error(t, err)
}

// ==========================
// OCR cleanup
// ==========================

func TestCleanOCRText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "C1BIL  Score", expected: "CIBIL Score"},
		{input: "c1bi1 report", expected: "CIBIL report"},
		{input: "cr3dit report", expected: "credit report"},
		{input: "Acc0unt Details", expected: "account Details"},
		{input: "Rs. 5,000", expected: "₹5,000"},
		{input: "INR 200", expected: "₹200"},
		{input: "a\n\n\n\nb", expected: "a\n\nb"},
		{input: "  padded\t\ttext  ", expected: "padded text"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanOCRText(tt.input))
		})
	}
}
