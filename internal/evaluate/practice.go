package evaluate

import (
	"github.com/abhisek/mutabayinat/internal/answer"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/session"
)

// Practice evaluates step-by-step guided problems. There are no hints and
// no score penalty; a wrong step shows the step's own instruction.
type Practice struct{}

func (Practice) Evaluate(p *problem.Problem, st *session.State, input string) Result {
	lang := st.Lang

	if st.AllStepsComplete || len(p.Steps) == 0 {
		return practiceFinal(p, lang, input)
	}
	if st.Step >= len(p.Steps) {
		return Result{Verdict: VerdictIncomplete}
	}

	step := p.Steps[st.Step]
	if blank(input) {
		return Result{Verdict: VerdictIncomplete, Message: Message(lang, MsgEnterStep)}
	}

	norm := answer.Normalize(input)
	if guardsWork(step) && answer.ContainsComparison(norm) {
		return Result{
			Verdict: VerdictIncorrect,
			Message: Message(lang, MsgShowWork),
			Effects: Effects{CountStepAttempt: true},
		}
	}

	if !stepMatches(step, lang, input, norm) {
		return Result{
			Verdict: VerdictIncorrect,
			Message: Message(lang, MsgStepWrong, step.Instruction.In(lang)),
			Effects: Effects{CountStepAttempt: true},
		}
	}

	switch {
	case st.Step < p.LastStep():
		return Result{Verdict: VerdictCorrect, Message: Message(lang, MsgStepCorrect), Advance: AdvanceStep}
	case p.FinalAnswerRequired:
		return Result{Verdict: VerdictCorrect, Message: Message(lang, MsgAllStepsDone), Advance: AdvanceAllSteps}
	default:
		return Result{
			Verdict: VerdictCorrect,
			Message: Message(lang, MsgPracticeDone),
			Advance: AdvanceComplete,
			Submit:  true,
		}
	}
}

// guardsWork reports whether a step must be answered with intermediate
// work, so that a final inequality typed into it is rejected. Final-answer
// steps and steps whose own answers are inequalities are exempt.
func guardsWork(step problem.Step) bool {
	if step.IsFinal() {
		return false
	}
	return !answer.AnyComparison(answer.StepAnswerSet(step.Answers.All()))
}

func stepMatches(step problem.Step, lang problem.Lang, input, norm string) bool {
	accepted := step.Answers.In(lang)
	if answer.Matches(norm, answer.StepAnswerSet(accepted)) {
		return true
	}
	if !step.IsFinal() {
		return false
	}
	for _, a := range accepted {
		if answer.CheckFinal(input, a) {
			return true
		}
	}
	return false
}

// practiceFinal checks the separate final answer entered after all steps.
func practiceFinal(p *problem.Problem, lang problem.Lang, input string) Result {
	if blank(input) {
		return Result{Verdict: VerdictIncomplete, Message: Message(lang, MsgEnterFinal)}
	}

	ok := answer.CheckFinal(input, p.Answer)
	if !ok && p.Answer == "" && len(p.Steps) > 0 {
		last := p.Steps[p.LastStep()]
		for _, a := range last.Answers.In(lang) {
			if answer.CheckFinal(input, a) {
				ok = true
				break
			}
		}
	}

	if !ok {
		return Result{Verdict: VerdictIncorrect, Message: Message(lang, MsgTryAgain)}
	}
	return Result{
		Verdict: VerdictCorrect,
		Message: Message(lang, MsgPracticeDone),
		Advance: AdvanceComplete,
		Submit:  true,
	}
}
