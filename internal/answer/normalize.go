package answer

import (
	"regexp"
	"strings"
)

// ArabicVariable is the Arabic letter used for the unknown in Arabic notation.
const ArabicVariable = 'س'

var (
	// operatorSpacing matches a binary or comparison operator together with
	// any whitespace around it.
	operatorSpacing = regexp.MustCompile(`\s*([+\-*/=<>≤≥])\s*`)

	// bareNumber matches a signed integer or decimal with nothing else.
	bareNumber = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

	operatorGlyphs = strings.NewReplacer("÷", "/", "×", "*")

	combinedForms = strings.NewReplacer("<=", "≤", ">=", "≥")
)

// Normalize canonicalizes a mathematical expression so that two inputs
// that differ only in script, numeral system, operator glyph, letter case,
// or whitespace compare equal.
//
// The transformation is pure and idempotent:
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = strings.Map(mapScript, s)
	s = operatorGlyphs.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = operatorSpacing.ReplaceAllString(s, "$1")
	return combinedForms.Replace(s)
}

// NormalizeAgainst normalizes raw as a final answer to be compared with
// expected. A bare number is promoted to "x=<number>" when the expected
// answer is written in that form, so "7" matches "x = 7".
//
// expected only ever goes through the plain Normalize.
func NormalizeAgainst(raw, expected string) string {
	s := Normalize(raw)
	if !bareNumber.MatchString(s) || strings.Contains(s, "x") {
		return s
	}
	if strings.Contains(Normalize(expected), "x=") {
		return "x=" + s
	}
	return s
}

// mapScript maps Arabic-script characters onto their Latin counterparts.
func mapScript(r rune) rune {
	switch {
	case r == ArabicVariable:
		return 'x'
	case r >= '٠' && r <= '٩': // Eastern Arabic-Indic
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹': // Extended (Persian) Arabic-Indic
		return '0' + (r - '۰')
	case r == '٫': // Arabic decimal separator
		return '.'
	}
	return r
}

// ContainsComparison reports whether s contains an inequality glyph.
// s should already be normalized so that "<=" has become "≤".
func ContainsComparison(s string) bool {
	return strings.ContainsAny(s, "<>≤≥")
}

// IsBareNumber reports whether the normalized string is just a signed number.
func IsBareNumber(s string) bool {
	return bareNumber.MatchString(s)
}
