package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/mutabayinat/internal/curriculum"
	"github.com/abhisek/mutabayinat/internal/problem"
)

func testGate() *Gate {
	return NewGate(curriculum.Catalog{})
}

func TestCheck_NoProgressIsOpen(t *testing.T) {
	g := testGate()
	for _, id := range curriculum.Stages("s1") {
		d := g.Check("s1", id, problem.Progress{})
		assert.True(t, d.Allowed, id)
	}
}

func TestCheck_NonAssessmentAlwaysOpen(t *testing.T) {
	g := testGate()
	progress := problem.Progress{"s1": {"s1_prep": {Completed: false, Attempts: 3}}}

	for _, id := range []string{"s1_prep", "s1_explanation", "s1_practice1", "s1_practice2"} {
		assert.True(t, g.Check("s1", id, progress).Allowed, id)
	}
}

func TestCheck_AssessmentNeedsAllPractice(t *testing.T) {
	g := testGate()
	progress := problem.Progress{"s1": {
		"s1_prep":      {Completed: true},
		"s1_practice1": {Completed: true},
	}}

	d := g.Check("s1", "s1_assessment", progress)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonPracticeIncomplete, d.Reason)
	assert.Equal(t, []string{"s1_practice2"}, d.Incomplete)
}

func TestCheck_ExamPrepNeedsPracticeFirst(t *testing.T) {
	g := testGate()
	progress := problem.Progress{"s1": {"s1_prep": {Completed: true}}}

	d := g.Check("s1", "s1_examprep", progress)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonPracticeIncomplete, d.Reason)
	assert.Equal(t, []string{"s1_practice1", "s1_practice2"}, d.Incomplete)
}

func TestCheck_ExamPrepNeedsAssessment(t *testing.T) {
	g := testGate()
	progress := problem.Progress{"s1": {
		"s1_practice1": {Completed: true},
		"s1_practice2": {Completed: true},
	}}

	d := g.Check("s1", "s1_examprep", progress)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonAssessmentIncomplete, d.Reason)
	assert.Equal(t, []string{"s1_assessment"}, d.Incomplete)

	progress = progress.Merge(problem.Progress{"s1": {"s1_assessment": {Completed: true, Score: 85}}})

	d = g.Check("s1", "s1_examprep", progress)
	assert.True(t, d.Allowed)
	assert.Equal(t, ReasonNone, d.Reason)
}

func TestCheck_AssessmentStaysOpenOnceUnlocked(t *testing.T) {
	g := testGate()
	progress := problem.Progress{"s2": {
		"s2_practice1": {Completed: true},
		"s2_practice2": {Completed: true},
	}}
	assert.True(t, g.Check("s2", "s2_assessment", progress).Allowed)

	// Later refreshes may carry stale records; merged progress never
	// un-completes, so the decision cannot flap.
	stale := problem.Progress{"s2": {"s2_practice2": {Completed: false, Attempts: 1}}}
	for i := 0; i < 3; i++ {
		progress = progress.Merge(stale)
		assert.True(t, g.Check("s2", "s2_assessment", progress).Allowed)
	}
}

func TestCheck_ExtraPracticeFromProgress(t *testing.T) {
	g := testGate()
	progress := problem.Progress{"s1": {
		"s1_practice1": {Completed: true},
		"s1_practice2": {Completed: true},
		"s1_practice3": {Completed: false},
	}}

	d := g.Check("s1", "s1_assessment", progress)
	assert.False(t, d.Allowed)
	assert.Equal(t, []string{"s1_practice3"}, d.Incomplete)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allowed", Decision{Allowed: true}.String())
	d := Decision{Reason: ReasonPracticeIncomplete, Incomplete: []string{"a", "b"}}
	assert.Equal(t, "practice-incomplete: a, b", d.String())
}
