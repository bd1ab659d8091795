// Package evaluate checks a student's input against a problem and decides
// what happens next. Evaluators are pure: they read the session state and
// return a Result; the progression controller applies it with Apply.
package evaluate

import (
	"strings"
	"time"

	"github.com/abhisek/mutabayinat/internal/inputbuf"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/session"
	"github.com/abhisek/mutabayinat/internal/stage"
)

// NoticeTTL is how long an Incomplete notice stays on screen.
const NoticeTTL = 3 * time.Second

// Verdict is the outcome of one evaluation.
type Verdict int

const (
	VerdictIncomplete Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	default:
		return "incomplete"
	}
}

// Advance is the transition a Result asks for.
type Advance int

const (
	AdvanceNone Advance = iota

	// AdvanceStep marks the active step correct and activates the next one.
	AdvanceStep

	// AdvanceAllSteps marks the last step correct and asks for the separate
	// final answer.
	AdvanceAllSteps

	// AdvanceExampleStep moves a worked example from sub-step 1 to 2.
	AdvanceExampleStep

	// AdvanceExample moves on to the next worked example.
	AdvanceExample

	// AdvanceComplete completes the whole problem.
	AdvanceComplete
)

// Effects are the state changes that accompany a verdict.
type Effects struct {
	// CountAttempt adds one wrong final-answer attempt.
	CountAttempt bool

	// CountStepAttempt adds one wrong attempt on the active step.
	CountStepAttempt bool

	// RevealHints is the number of hints that must be visible afterwards.
	// Zero leaves hints unchanged.
	RevealHints int

	// SetScore replaces the running score with Score.
	SetScore bool
	Score    int

	// Redirect shows the mandatory redirect to the Explanation stage.
	Redirect bool
}

// Result is what an evaluator returns.
type Result struct {
	Verdict Verdict
	Message string
	Effects Effects
	Advance Advance

	// Submit asks the controller to record the attempt with the backend.
	Submit bool

	// Locked is set when the problem no longer accepts answers in this
	// session. Nothing else in the Result is meaningful.
	Locked bool
}

// Evaluator checks input for one stage kind.
type Evaluator interface {
	Evaluate(p *problem.Problem, st *session.State, input string) Result
}

// For returns the evaluator for kind. Preparation and Assessment share the
// final-answer evaluator and differ only in scoring.
func For(kind stage.Kind) Evaluator {
	switch kind {
	case stage.KindAssessment:
		return FinalAnswer{Policy: PenaltyPerAttempt, MaxAttempts: MaxAttemptsBeforeRedirect}
	case stage.KindPractice:
		return Practice{}
	case stage.KindExplanation:
		return Explanation{}
	default:
		return FinalAnswer{Policy: NoScoring, MaxAttempts: MaxAttemptsBeforeRedirect}
	}
}

// Apply applies r to st. It is the only place evaluation results mutate
// session state.
func Apply(st *session.State, r Result, now time.Time) {
	if r.Locked {
		st.SetMessage(r.Message, 0, now)
		return
	}

	e := r.Effects
	if e.CountAttempt {
		st.Attempts++
	}
	if e.CountStepAttempt && st.Step < len(st.StepAttempts) {
		st.StepAttempts[st.Step]++
	}
	if e.RevealHints > st.HintsRevealed {
		st.HintsRevealed = e.RevealHints
	}
	if e.SetScore && e.Score < st.Score {
		st.Score = e.Score
	}
	if e.Redirect {
		st.AwaitingRedirect = true
	}

	switch r.Advance {
	case AdvanceStep:
		markStep(st)
		st.Step++
		st.Input.Focus(inputbuf.Slot(st.Step))
	case AdvanceAllSteps:
		markStep(st)
		st.AllStepsComplete = true
		st.Input.Focus(FinalAnswerSlot(st))
	case AdvanceExampleStep:
		st.ExampleStep = 1
		st.Input.SetExplanationStep(1)
	case AdvanceExample:
		st.Example++
		st.ExampleStep = 0
		st.Input.ResetExplanation()
	case AdvanceComplete:
		if !st.AllStepsComplete {
			markStep(st)
		}
		st.Correct = true
	}

	ttl := time.Duration(0)
	if r.Verdict == VerdictIncomplete {
		ttl = NoticeTTL
	}
	st.SetMessage(r.Message, ttl, now)
}

// FinalAnswerSlot is the buffer used for the separate final answer that
// follows a stepped Practice problem.
func FinalAnswerSlot(st *session.State) inputbuf.Slot {
	return inputbuf.Slot(len(st.StepCorrect))
}

func markStep(st *session.State) {
	if st.Step >= 0 && st.Step < len(st.StepCorrect) {
		st.StepCorrect[st.Step] = true
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
