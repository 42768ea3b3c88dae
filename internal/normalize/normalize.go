package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after NFD decomposition, so accented
// letters pasted into spreadsheets fold to their ASCII base.
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// dashReplacer folds the unicode dash/space zoo that word processors put
// into copied model numbers down to plain characters.
var dashReplacer = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
	" ", " ", // non-breaking space
	" ", " ", // figure space
	" ", " ", // narrow no-break space
)

// ModelText normalizes a raw spreadsheet cell value for grammar matching:
// fold odd unicode, uppercase, drop spaces and hyphens.
func ModelText(raw string) string {
	s := dashReplacer.Replace(raw)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToUpper(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '-' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Plausible reports whether a normalized cell value is even worth testing
// against the grammar set. Cuts regex work at whole-workbook scan scale.
func Plausible(s string) bool {
	if len(s) < 5 || len(s) > 16 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			return false
		}
	}
	return hasLetter && hasDigit
}
