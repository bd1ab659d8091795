package evaluate

import (
	"github.com/abhisek/mutabayinat/internal/answer"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/session"
)

// MaxAttemptsBeforeRedirect is the wrong attempt that replaces hints with
// the redirect to the Explanation stage.
const MaxAttemptsBeforeRedirect = 3

// ScoringPolicy controls how wrong attempts affect the running score.
type ScoringPolicy struct {
	Enabled bool

	Base    int
	Penalty int
	Floor   int

	// ScoredAttempts caps how many wrong attempts are penalized.
	ScoredAttempts int
}

var (
	NoScoring = ScoringPolicy{}

	PenaltyPerAttempt = ScoringPolicy{
		Enabled:        true,
		Base:           100,
		Penalty:        15,
		Floor:          10,
		ScoredAttempts: 2,
	}
)

// ScoreAfter returns the score after the given number of wrong attempts.
// It is recomputed from Base every time rather than decremented.
func (p ScoringPolicy) ScoreAfter(attempts int) int {
	if !p.Enabled {
		return session.InitialScore
	}
	n := min(max(attempts, 0), p.ScoredAttempts)
	return max(p.Floor, p.Base-p.Penalty*n)
}

// FinalAnswer evaluates stages answered with a single final answer:
// Preparation (no scoring) and Assessment (penalty per attempt).
type FinalAnswer struct {
	Policy      ScoringPolicy
	MaxAttempts int
}

func (f FinalAnswer) Evaluate(p *problem.Problem, st *session.State, input string) Result {
	lang := st.Lang

	if st.AwaitingRedirect || st.Attempts >= f.MaxAttempts {
		return Result{
			Verdict: VerdictIncorrect,
			Message: Message(lang, MsgRedirect),
			Locked:  true,
		}
	}

	if blank(input) {
		return Result{Verdict: VerdictIncomplete, Message: Message(lang, MsgEnterFinal)}
	}

	if answer.CheckFinal(input, p.Answer) {
		msg := Message(lang, MsgCorrect)
		if f.Policy.Enabled {
			msg = Message(lang, MsgCorrectScored, st.Score, st.HintsUsed())
		}
		return Result{
			Verdict: VerdictCorrect,
			Message: msg,
			Advance: AdvanceComplete,
			Submit:  true,
		}
	}

	n := st.Attempts + 1
	if n >= f.MaxAttempts {
		return Result{
			Verdict: VerdictIncorrect,
			Message: Message(lang, MsgRedirect),
			Effects: Effects{CountAttempt: true, Redirect: true},
		}
	}

	e := Effects{CountAttempt: true}
	hint := p.Hint(n-1, lang)
	hintsUsed := st.HintsUsed()
	if hint != "" {
		e.RevealHints = n
		hintsUsed = max(hintsUsed, n)
	}

	var msg string
	switch {
	case f.Policy.Enabled:
		e.SetScore = true
		e.Score = f.Policy.ScoreAfter(n)
		if hint != "" {
			msg = Message(lang, MsgWrongScoredHint, e.Score, hintsUsed, hint)
		} else {
			msg = Message(lang, MsgWrongScored, e.Score, hintsUsed)
		}
	case hint != "":
		msg = Message(lang, MsgTryAgainHint, hint)
	default:
		msg = Message(lang, MsgTryAgain)
	}

	return Result{Verdict: VerdictIncorrect, Message: msg, Effects: e}
}
