package draw

import "strings"

// Sanitize removes every code point outside printable ASCII (0x20-0x7E),
// keeping newline, carriage return and tab. Zero-width spaces, the Adobe
// NBSP variants and other typographic unicode that upstream producers leak
// into field values would otherwise corrupt the form viewers.
func Sanitize(s string) string {
	clean := true
	for _, r := range s {
		if !printableASCII(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if printableASCII(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func printableASCII(r rune) bool {
	return (r >= 0x20 && r <= 0x7E) || r == '\n' || r == '\r' || r == '\t'
}

// sanitizeUpper is the canonical form for risk level cells: sanitized and
// upper-cased.
func sanitizeUpper(s string) string {
	return strings.ToUpper(Sanitize(s))
}

// digitsOnly strips every non-digit character. The form's date field wants
// a bare digit string (20250115), not the dashed ISO form.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// joinValues newline-joins a statement list and sanitizes the result.
func joinValues(values []string) string {
	return Sanitize(strings.Join(values, "\n"))
}
