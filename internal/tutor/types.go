package tutor

import (
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/stage"
)

// Category names the kind of mistake behind a wrong answer.
type Category string

const (
	CategorySignFlip     Category = "sign-flip"
	CategoryStrictness   Category = "strictness"
	CategoryBoundary     Category = "boundary"
	CategoryNotSolved    Category = "not-solved"
	CategoryUnclassified Category = "unclassified"
)

// Input is what the tutor knows about a student's struggle.
type Input struct {
	Problem *problem.Problem
	Kind    stage.Kind
	Lang    problem.Lang

	// WrongAnswers are the student's rejected answers, oldest first.
	WrongAnswers []string
	HintsUsed    int
}

// Diagnosis is the classified mistake.
type Diagnosis struct {
	Category   Category
	Confidence float64
	Classifier string
}

// Source says where an explanation came from.
type Source string

const (
	SourceModel   Source = "model"
	SourceOffline Source = "offline"
)

// Explanation is shown to a student who was redirected to the
// explanation stage.
type Explanation struct {
	Summary       string
	Steps         []string
	Encouragement string

	Diagnosis Diagnosis
	Source    Source
}
