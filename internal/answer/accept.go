package answer

import "strings"

// FinalAnswerSet builds the acceptable-answer set for a final answer from
// its canonical form: the canonical form itself, the form with a leading
// "x=" stripped, and "x=" re-added to a stripped bare number. Entries are
// normalized, deduplicated and never empty.
func FinalAnswerSet(canonical string) []string {
	c := Normalize(canonical)
	stripped := strings.TrimPrefix(c, "x=")

	candidates := []string{c, stripped}
	if IsBareNumber(stripped) {
		candidates = append(candidates, "x="+stripped)
	}
	return dedupe(candidates)
}

// StepAnswerSet normalizes and deduplicates a step's acceptable answers.
func StepAnswerSet(answers []string) []string {
	out := make([]string, 0, len(answers))
	for _, a := range answers {
		out = append(out, Normalize(a))
	}
	return dedupe(out)
}

// Matches reports whether the normalized input is a member of set.
func Matches(normalized string, set []string) bool {
	if normalized == "" {
		return false
	}
	for _, a := range set {
		if a == normalized {
			return true
		}
	}
	return false
}

// CheckFinal reports whether input is an acceptable final answer for canonical.
func CheckFinal(input, canonical string) bool {
	return Matches(NormalizeAgainst(input, canonical), FinalAnswerSet(canonical))
}

// AnyComparison reports whether any normalized entry of set contains an
// inequality glyph.
func AnyComparison(set []string) bool {
	for _, a := range set {
		if ContainsComparison(a) {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
