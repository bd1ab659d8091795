// Package access decides whether a student may enter a problem given the
// progress recorded in its section.
package access

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/stage"
)

// Reason explains a denied Decision.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonPracticeIncomplete   Reason = "practice-incomplete"
	ReasonAssessmentIncomplete Reason = "assessment-incomplete"
)

// Decision is the result of an access check.
type Decision struct {
	Allowed bool
	Reason  Reason

	// Incomplete lists the prerequisite problem ids that are not completed.
	Incomplete []string
}

func (d Decision) String() string {
	if d.Allowed {
		return "allowed"
	}
	return fmt.Sprintf("%s: %s", d.Reason, strings.Join(d.Incomplete, ", "))
}

// StageLister returns the ordered problem ids of a section.
type StageLister interface {
	Stages(sectionID string) []string
}

// Gate enforces stage prerequisites within a section.
type Gate struct {
	stages StageLister
}

// NewGate creates a Gate over the given section ordering.
func NewGate(stages StageLister) *Gate {
	return &Gate{stages: stages}
}

// Check decides whether problemID in sectionID may be entered.
//
//   - A section with no progress at all is open: first-time visitors are
//     never blocked.
//   - Assessment and exam-prep problems require every practice problem of the
//     section to be completed.
//   - Exam-prep additionally requires the section's assessment to be completed.
//   - Everything else is always open.
func (g *Gate) Check(sectionID, problemID string, progress problem.Progress) Decision {
	sp, ok := progress.Section(sectionID)
	if !ok {
		return Decision{Allowed: true}
	}

	if stage.Classify("", problemID) != stage.KindAssessment {
		return Decision{Allowed: true}
	}

	ids := g.sectionProblems(sectionID, sp)

	var practice []string
	for _, id := range ids {
		if stage.Classify("", id) == stage.KindPractice && !sp[id].Completed {
			practice = append(practice, id)
		}
	}
	if len(practice) > 0 {
		return Decision{Reason: ReasonPracticeIncomplete, Incomplete: practice}
	}

	if !stage.IsExamPrep("", problemID) {
		return Decision{Allowed: true}
	}

	var assessments []string
	for _, id := range ids {
		if isAssessment(id) && !sp[id].Completed {
			assessments = append(assessments, id)
		}
	}
	if len(assessments) > 0 {
		return Decision{Reason: ReasonAssessmentIncomplete, Incomplete: assessments}
	}
	return Decision{Allowed: true}
}

// sectionProblems returns the known problem ids of a section: the static
// ordering first, then any extra ids that only appear in progress (sorted
// for stable output).
func (g *Gate) sectionProblems(sectionID string, sp problem.SectionProgress) []string {
	var ids []string
	seen := make(map[string]bool)
	if g.stages != nil {
		for _, id := range g.stages.Stages(sectionID) {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	var extra []string
	for id := range sp {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}

func isAssessment(id string) bool {
	return stage.Classify("", id) == stage.KindAssessment && !stage.IsExamPrep("", id)
}
