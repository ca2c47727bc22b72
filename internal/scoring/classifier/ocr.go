// internal/scoring/classifier/ocr.go
package classifier

import (
	"regexp"
	"strings"
)

type ocrFix struct {
	re   *regexp.Regexp
	repl string
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)

	// Digit/letter confusions seen in scanned bureau reports.
	ocrFixes = []ocrFix{
		{regexp.MustCompile(`(?i)\bc[il1]b[il1][l1]\b`), "CIBIL"},
		{regexp.MustCompile(`(?i)\bcr[e3]d[il1]t\b`), "credit"},
		{regexp.MustCompile(`(?i)\bacc[o0]unt`), "account"},
		{regexp.MustCompile(`(?i)\b(?:rs\.?|inr)\s*(\d)`), "₹$1"},
	}
)

// CleanOCRText normalizes whitespace and repairs common OCR misreads before classification.
func CleanOCRText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n\n")
	for _, fix := range ocrFixes {
		text = fix.re.ReplaceAllString(text, fix.repl)
	}
	return strings.TrimSpace(text)
}
