// Package session holds the per-problem state of an active tutoring
// session. The progression controller owns the State; evaluators and
// views only read it.
package session

import (
	"time"

	"github.com/abhisek/mutabayinat/internal/inputbuf"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/stage"
)

// InitialScore is the running score a problem starts with.
const InitialScore = 100

// State tracks the runtime state of one problem.
type State struct {
	// SessionID tags in-flight backend calls so late responses can be
	// told apart from the current problem.
	SessionID string

	ProblemID string
	SectionID string

	// Kind is selected once on entry and never re-derived.
	Kind     stage.Kind
	ExamPrep bool

	Lang problem.Lang

	// Step is the active step index for stepped stages.
	Step int

	// Input holds one buffer per step, or DefaultSlot, plus the two
	// explanation slots.
	Input *inputbuf.Buffer

	// StepCorrect marks steps already answered correctly. A correct step
	// is never re-evaluated.
	StepCorrect []bool

	// StepAttempts counts wrong answers per step.
	StepAttempts []int

	// HintsRevealed is the number of hints shown so far, in order.
	HintsRevealed int

	// Score is the running score. It starts at InitialScore and only
	// decreases.
	Score int

	// Attempts counts wrong final-answer submissions on this problem.
	Attempts int

	Message       string
	MessageExpiry time.Time

	AllStepsComplete bool
	AwaitingRedirect bool
	Correct          bool
	Submitted        bool
	SaveFailed       bool

	// Example and ExampleStep track the worked example and its sub-step
	// (0 or 1) on an Explanation problem.
	Example     int
	ExampleStep int

	// LastInput is the raw text of the last submission. It is what gets
	// recorded with the backend.
	LastInput string

	// WrongAnswers are the rejected inputs of this problem, oldest first.
	WrongAnswers []string

	// Explanation is the tutor's explanation of the student's mistake,
	// when one was requested.
	Explanation string
}

// New returns a State ready for a fresh problem.
func New(sessionID string) *State {
	s := &State{Input: inputbuf.New()}
	s.Reset(sessionID)
	return s
}

// Reset clears every field for a new problem. Each field is listed so that
// nothing from the previous problem leaks into the next one.
func (s *State) Reset(sessionID string) {
	s.SessionID = sessionID
	s.ProblemID = ""
	s.SectionID = ""
	s.Kind = stage.KindPreparation
	s.ExamPrep = false
	s.Step = 0
	if s.Input == nil {
		s.Input = inputbuf.New()
	}
	s.Input.Reset()
	s.StepCorrect = nil
	s.StepAttempts = nil
	s.HintsRevealed = 0
	s.Score = InitialScore
	s.Attempts = 0
	s.Message = ""
	s.MessageExpiry = time.Time{}
	s.AllStepsComplete = false
	s.AwaitingRedirect = false
	s.Correct = false
	s.Submitted = false
	s.SaveFailed = false
	s.Example = 0
	s.ExampleStep = 0
	s.LastInput = ""
	s.WrongAnswers = nil
	s.Explanation = ""
}

// Load binds the state to p. Call after Reset.
func (s *State) Load(p *problem.Problem, kind stage.Kind, examPrep bool, lang problem.Lang) {
	s.ProblemID = p.ID
	s.SectionID = p.SectionID
	s.Kind = kind
	s.ExamPrep = examPrep
	s.Lang = lang
	s.StepCorrect = make([]bool, len(p.Steps))
	s.StepAttempts = make([]int, len(p.Steps))
	s.Input.SetExplanation(kind == stage.KindExplanation)
	s.Input.Focus(inputbuf.DefaultSlot)
}

// HintsUsed is the number of hints the student has seen.
func (s *State) HintsUsed() int {
	return s.HintsRevealed
}

// Active reports whether the problem still accepts input.
func (s *State) Active() bool {
	return !s.Submitted && !s.AwaitingRedirect
}

// SetMessage shows msg until ttl elapses. A zero ttl keeps it until replaced.
func (s *State) SetMessage(msg string, ttl time.Duration, now time.Time) {
	s.Message = msg
	if ttl > 0 {
		s.MessageExpiry = now.Add(ttl)
	} else {
		s.MessageExpiry = time.Time{}
	}
}

// VisibleMessage returns the feedback message if it has not expired.
func (s *State) VisibleMessage(now time.Time) string {
	if !s.MessageExpiry.IsZero() && now.After(s.MessageExpiry) {
		return ""
	}
	return s.Message
}

// Snapshot returns a deep copy that can be handed to views.
func (s *State) Snapshot() State {
	cp := *s
	cp.Input = s.Input.Clone()
	cp.StepCorrect = append([]bool(nil), s.StepCorrect...)
	cp.StepAttempts = append([]int(nil), s.StepAttempts...)
	cp.WrongAnswers = append([]string(nil), s.WrongAnswers...)
	return cp
}
