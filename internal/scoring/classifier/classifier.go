// internal/scoring/classifier/classifier.go

// Package classifier scores free text against a document-type vocabulary and returns a
// confidence-rated verdict with version and format sub-classification.
package classifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Format is the structural layout of a classified document.
type Format string

const (
	FormatStandard Format = "STANDARD"
	FormatDetailed Format = "DETAILED"
	FormatSummary  Format = "SUMMARY"
)

const reasonEmptyText = "empty or invalid text"

var (
	sectionMarkerPattern = regexp.MustCompile(`(?i)\b(?:section|chapter)\b`)
	tableMarkerPattern   = regexp.MustCompile(`(?i)\b(?:account|loan|payment)s?\b`)
)

// Verdict is the result of classifying a block of text.
type Verdict struct {
	IsMatch    bool     `json:"isMatch"`
	Confidence int      `json:"confidence"`
	VersionTag string   `json:"versionTag"`
	FormatTag  Format   `json:"formatTag"`
	Reasons    []string `json:"reasons"`
}

// Options holds every tunable weight and threshold of the classifier.
// Start from DefaultOptions and override fields; zero values are taken literally.
type Options struct {
	MatchThreshold int

	PatternWeight        int
	KeywordBonusMinHits  int
	KeywordBonus         int
	PatternBonusMinHits  int
	PatternBonus         int
	ValidScoreBonus      int
	FalsePositivePenalty int
	AnchorMinHits        int
	AnchorBonus          int

	// MaxInputBytes caps how much text is examined. Longer text is truncated.
	MaxInputBytes int

	DetailedMinWords        int
	DetailedMinSections     int
	DetailedMinTableMarkers int
	SummaryMaxWords         int
}

// DefaultOptions returns the calibrated classifier settings.
func DefaultOptions() Options {
	return Options{
		MatchThreshold:          40,
		PatternWeight:           10,
		KeywordBonusMinHits:     3,
		KeywordBonus:            10,
		PatternBonusMinHits:     2,
		PatternBonus:            15,
		ValidScoreBonus:         20,
		FalsePositivePenalty:    10,
		AnchorMinHits:           2,
		AnchorBonus:             5,
		MaxInputBytes:           1 << 20,
		DetailedMinWords:        2000,
		DetailedMinSections:     3,
		DetailedMinTableMarkers: 5,
		SummaryMaxWords:         500,
	}
}

// Classifier applies a Vocabulary to text. It holds no mutable state.
type Classifier struct {
	vocab *Vocabulary
	opts  Options
}

// NewClassifier builds a classifier. A nil vocabulary selects the embedded credit report vocabulary.
func NewClassifier(vocab *Vocabulary, opts Options) *Classifier {
	if vocab == nil {
		vocab = DefaultCreditReportVocabulary()
	}
	return &Classifier{vocab: vocab, opts: opts}
}

// Vocabulary returns the vocabulary the classifier scores against.
func (c *Classifier) Vocabulary() *Vocabulary { return c.vocab }

// Assess classifies text and runs the validation pass over the result.
func (c *Classifier) Assess(text string) Verdict {
	return c.Validate(text, c.Classify(text))
}

// Classify scores text against the vocabulary.
func (c *Classifier) Classify(text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return Verdict{
			IsMatch:    false,
			Confidence: 0,
			VersionTag: c.vocab.defaultVersion,
			FormatTag:  FormatStandard,
			Reasons:    []string{reasonEmptyText},
		}
	}

	var reasons []string
	text, truncated := c.Truncate(text)
	if truncated {
		reasons = append(reasons, c.TruncationReason())
	}
	lower := strings.ToLower(text)

	confidence := 0

	keywordHits := 0
	for _, kw := range c.vocab.keywords {
		if strings.Contains(lower, kw.Term) {
			confidence += kw.Weight
			keywordHits++
			reasons = append(reasons, fmt.Sprintf("keyword %q (+%d)", kw.Term, kw.Weight))
		}
	}

	patternHits := 0
	for _, p := range c.vocab.patterns {
		if p.re.MatchString(lower) {
			confidence += c.opts.PatternWeight
			patternHits++
			reasons = append(reasons, fmt.Sprintf("pattern %s matched (+%d)", p.id, c.opts.PatternWeight))
		}
	}

	if keywordHits >= c.opts.KeywordBonusMinHits {
		confidence += c.opts.KeywordBonus
		reasons = append(reasons, fmt.Sprintf("multiple keyword matches (+%d)", c.opts.KeywordBonus))
	}
	if patternHits >= c.opts.PatternBonusMinHits {
		confidence += c.opts.PatternBonus
		reasons = append(reasons, fmt.Sprintf("multiple pattern matches (+%d)", c.opts.PatternBonus))
	}

	if value, ok := c.validScore(lower); ok {
		confidence += c.opts.ValidScoreBonus
		reasons = append(reasons, fmt.Sprintf("valid %s %d (+%d)", c.vocab.score.label, value, c.opts.ValidScoreBonus))
	}

	confidence = clamp(confidence, 0, 100)

	return Verdict{
		IsMatch:    confidence >= c.opts.MatchThreshold,
		Confidence: confidence,
		VersionTag: c.detectVersion(lower),
		FormatTag:  c.detectFormat(lower),
		Reasons:    reasons,
	}
}

// Validate applies false-positive penalties and the anchor bonus to a verdict produced
// by Classify. The input verdict is left untouched.
func (c *Classifier) Validate(text string, v Verdict) Verdict {
	out := v
	out.Reasons = append(make([]string, 0, len(v.Reasons)+2), v.Reasons...)

	text, _ = c.Truncate(text)
	lower := strings.ToLower(text)
	confidence := v.Confidence

	for _, phrase := range c.vocab.falsePositives {
		if strings.Contains(lower, phrase) {
			confidence -= c.opts.FalsePositivePenalty
			out.Reasons = append(out.Reasons, fmt.Sprintf("false positive %q (-%d)", phrase, c.opts.FalsePositivePenalty))
		}
	}
	if confidence < 0 {
		confidence = 0
	}

	anchors := 0
	for _, term := range c.vocab.anchors {
		if strings.Contains(lower, term) {
			anchors++
		}
	}
	if anchors >= c.opts.AnchorMinHits && len(c.vocab.anchors) > 0 {
		confidence += c.opts.AnchorBonus
		out.Reasons = append(out.Reasons, "required elements found")
	}

	out.Confidence = clamp(confidence, 0, 100)
	out.IsMatch = out.Confidence >= c.opts.MatchThreshold
	return out
}

// Truncate caps text at Options.MaxInputBytes on a UTF-8 boundary.
func (c *Classifier) Truncate(text string) (string, bool) {
	limit := c.opts.MaxInputBytes
	if limit <= 0 || len(text) <= limit {
		return text, false
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit], true
}

// TruncationReason is the verdict reason recorded when input was capped.
func (c *Classifier) TruncationReason() string {
	return fmt.Sprintf("input truncated to %d bytes", c.opts.MaxInputBytes)
}

// validScore reports the first score-labelled number when it lies in the vocabulary's range.
func (c *Classifier) validScore(lower string) (int, bool) {
	sv := c.vocab.score
	if sv == nil {
		return 0, false
	}
	m := sv.re.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	value, err := strconv.Atoi(m[1])
	if err != nil || value < sv.min || value > sv.max {
		return 0, false
	}
	return value, true
}

func (c *Classifier) detectVersion(lower string) string {
	for _, re := range c.vocab.versionPatterns {
		if m := re.FindStringSubmatch(lower); m != nil && m[1] != "" {
			return m[1]
		}
	}
	for _, cue := range c.vocab.versionCues {
		if strings.Contains(lower, cue.Phrase) {
			return cue.Version
		}
	}
	return c.vocab.defaultVersion
}

func (c *Classifier) detectFormat(lower string) Format {
	for _, phrase := range c.vocab.detailed {
		if strings.Contains(lower, phrase) {
			return FormatDetailed
		}
	}
	for _, phrase := range c.vocab.summary {
		if strings.Contains(lower, phrase) {
			return FormatSummary
		}
	}

	words := len(strings.Fields(lower))
	if words > c.opts.DetailedMinWords &&
		len(sectionMarkerPattern.FindAllStringIndex(lower, -1)) > c.opts.DetailedMinSections &&
		len(tableMarkerPattern.FindAllStringIndex(lower, -1)) > c.opts.DetailedMinTableMarkers {
		return FormatDetailed
	}
	if words < c.opts.SummaryMaxWords {
		return FormatSummary
	}
	return FormatStandard
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
