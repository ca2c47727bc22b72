// internal/scoring/classifier/vocabulary.go
package classifier

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed vocabularies/cibil_report.yaml
var creditReportVocabularyYAML []byte

// WeightedTerm is a keyword and the points it contributes when present.
type WeightedTerm struct {
	Term   string `yaml:"term"`
	Weight int    `yaml:"weight"`
}

// PatternDef is a named regular expression. Patterns are compiled case-insensitive.
type PatternDef struct {
	ID    string `yaml:"id"`
	Regex string `yaml:"regex"`
}

// VersionCue maps a loose phrase ("new format") to a version tag.
type VersionCue struct {
	Phrase  string `yaml:"phrase"`
	Version string `yaml:"version"`
}

// ScoreValidation describes the headline numeric field of the domain and its valid range.
type ScoreValidation struct {
	Label   string `yaml:"label"`
	Pattern string `yaml:"pattern"`
	Min     int    `yaml:"min"`
	Max     int    `yaml:"max"`
}

// FormatIndicators lists phrases that name the report layout outright.
type FormatIndicators struct {
	Detailed []string `yaml:"detailed"`
	Summary  []string `yaml:"summary"`
}

// Definition is the serialized form of a vocabulary.
type Definition struct {
	Name             string           `yaml:"name"`
	Keywords         []WeightedTerm   `yaml:"keywords"`
	Patterns         []PatternDef     `yaml:"patterns"`
	VersionPatterns  []string         `yaml:"version_patterns"`
	VersionCues      []VersionCue     `yaml:"version_cues"`
	DefaultVersion   string           `yaml:"default_version"`
	FormatIndicators FormatIndicators `yaml:"format_indicators"`
	FalsePositives   []string         `yaml:"false_positives"`
	AnchorTerms      []string         `yaml:"anchor_terms"`
	ScoreValidation  *ScoreValidation `yaml:"score_validation"`
}

type compiledPattern struct {
	id string
	re *regexp.Regexp
}

type compiledScore struct {
	label    string
	re       *regexp.Regexp
	min, max int
}

// Vocabulary is a compiled, read-only Definition. It is safe for concurrent use.
type Vocabulary struct {
	name            string
	keywords        []WeightedTerm
	patterns        []compiledPattern
	versionPatterns []*regexp.Regexp
	versionCues     []VersionCue
	defaultVersion  string
	detailed        []string
	summary         []string
	falsePositives  []string
	anchors         []string
	score           *compiledScore
}

// NewVocabulary validates and compiles a Definition.
func NewVocabulary(def Definition) (*Vocabulary, error) {
	v := &Vocabulary{
		name:           def.Name,
		versionCues:    make([]VersionCue, 0, len(def.VersionCues)),
		defaultVersion: def.DefaultVersion,
		detailed:       lowerAll(def.FormatIndicators.Detailed),
		summary:        lowerAll(def.FormatIndicators.Summary),
		falsePositives: lowerAll(def.FalsePositives),
		anchors:        lowerAll(def.AnchorTerms),
	}
	if v.defaultVersion == "" {
		v.defaultVersion = "1.0"
	}

	for _, kw := range def.Keywords {
		term := strings.ToLower(strings.TrimSpace(kw.Term))
		if term == "" {
			return nil, fmt.Errorf("vocabulary %q: empty keyword", def.Name)
		}
		if kw.Weight <= 0 {
			return nil, fmt.Errorf("vocabulary %q: keyword %q has non-positive weight %d", def.Name, term, kw.Weight)
		}
		v.keywords = append(v.keywords, WeightedTerm{Term: term, Weight: kw.Weight})
	}

	for _, p := range def.Patterns {
		re, err := compileInsensitive(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("vocabulary %q: pattern %s: %w", def.Name, p.ID, err)
		}
		id := p.ID
		if id == "" {
			id = p.Regex
		}
		v.patterns = append(v.patterns, compiledPattern{id: id, re: re})
	}

	for _, raw := range def.VersionPatterns {
		re, err := compileInsensitive(raw)
		if err != nil {
			return nil, fmt.Errorf("vocabulary %q: version pattern: %w", def.Name, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("vocabulary %q: version pattern %q needs a capture group", def.Name, raw)
		}
		v.versionPatterns = append(v.versionPatterns, re)
	}

	for _, cue := range def.VersionCues {
		v.versionCues = append(v.versionCues, VersionCue{
			Phrase:  strings.ToLower(cue.Phrase),
			Version: cue.Version,
		})
	}

	if sv := def.ScoreValidation; sv != nil {
		re, err := compileInsensitive(sv.Pattern)
		if err != nil {
			return nil, fmt.Errorf("vocabulary %q: score pattern: %w", def.Name, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("vocabulary %q: score pattern needs a capture group", def.Name)
		}
		if sv.Min > sv.Max {
			return nil, fmt.Errorf("vocabulary %q: score range %d-%d is inverted", def.Name, sv.Min, sv.Max)
		}
		label := sv.Label
		if label == "" {
			label = "score"
		}
		v.score = &compiledScore{label: label, re: re, min: sv.Min, max: sv.Max}
	}

	return v, nil
}

// ParseVocabulary decodes a YAML Definition and compiles it.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vocabulary: %w", err)
	}
	return NewVocabulary(def)
}

// LoadVocabularyFile reads a YAML vocabulary from disk.
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return ParseVocabulary(data)
}

var (
	defaultVocabOnce sync.Once
	defaultVocab     *Vocabulary
	defaultVocabErr  error
)

// DefaultCreditReportVocabulary returns the embedded CIBIL credit report vocabulary.
// It panics if the embedded file does not compile, which the package tests rule out.
func DefaultCreditReportVocabulary() *Vocabulary {
	defaultVocabOnce.Do(func() {
		defaultVocab, defaultVocabErr = ParseVocabulary(creditReportVocabularyYAML)
	})
	if defaultVocabErr != nil {
		panic(fmt.Sprintf("embedded credit report vocabulary: %v", defaultVocabErr))
	}
	return defaultVocab
}

// Name returns the vocabulary name.
func (v *Vocabulary) Name() string { return v.name }

func compileInsensitive(expr string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
