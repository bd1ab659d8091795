package solve

import (
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/progression"
	"github.com/abhisek/mutabayinat/internal/session"
	"github.com/abhisek/mutabayinat/internal/tutor"
)

// Every message carries the generation of the problem it belongs to, so
// results for a problem the student already moved away from are dropped.

// enteredMsg is sent when a problem has been loaded and gated.
type enteredMsg struct {
	gen   int
	state session.State
	prob  *problem.Problem
	err   error
}

// submittedMsg is sent when a submission has been evaluated and, if
// needed, recorded.
type submittedMsg struct {
	gen int
	out progression.Outcome
	err error
}

// heardMsg carries a voice transcript.
type heardMsg struct {
	gen  int
	text string
	err  error
}

// explainedMsg carries the tutor's explanation.
type explainedMsg struct {
	gen int
	ex  *tutor.Explanation
	err error
}

// expireMsg re-renders once a timed notice runs out.
type expireMsg struct{}
