package stage

import (
	"slices"
	"strings"
)

var separators = strings.NewReplacer("_", "", "-", "", " ", "")

// key lowercases s and drops separators so "exam_prep", "Exam-Prep" and
// "examprep" compare equal.
func key(s string) string {
	return separators.Replace(strings.ToLower(s))
}

// Classify maps a problem's declared type and id to its stage kind. The
// first matching rule wins:
//
//  1. explanation
//  2. practice
//  3. assessment, examprep, or a standalone "exam" segment
//  4. type "preparation" or an id carrying a prep marker
//  5. preparation by default
func Classify(problemType, problemID string) Kind {
	t, id := key(problemType), key(problemID)
	has := func(marker string) bool {
		return strings.Contains(t, marker) || strings.Contains(id, marker)
	}

	switch {
	case has("explanation"):
		return KindExplanation
	case has("practice"):
		return KindPractice
	case has("assessment"), has("examprep"), examSegment(problemType), examSegment(problemID):
		return KindAssessment
	case t == "preparation", strings.Contains(id, "prep"):
		return KindPreparation
	default:
		return KindPreparation
	}
}

// examSegment reports whether s has "exam" as a whole segment, so "s1_exam"
// matches and "s1_example" does not.
func examSegment(s string) bool {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	return slices.Contains(parts, "exam")
}

// IsExamPrep reports whether the problem is the exam-prep variant of the
// Assessment stage, which carries an extra prerequisite.
func IsExamPrep(problemType, problemID string) bool {
	t, id := key(problemType), key(problemID)
	return strings.Contains(t, "examprep") || strings.Contains(id, "examprep")
}
