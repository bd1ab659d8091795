package evaluate

import (
	"github.com/abhisek/mutabayinat/internal/answer"
	"github.com/abhisek/mutabayinat/internal/curriculum"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/session"
)

// Explanation evaluates the two-step checks inside worked examples. Step 1
// checks the example's own manipulation answers; step 2 checks the
// simplified final answer.
type Explanation struct{}

func (Explanation) Evaluate(p *problem.Problem, st *session.State, input string) Result {
	lang := st.Lang
	examples := Examples(p)

	if blank(input) {
		key := MsgEnterStep
		if st.ExampleStep > 0 {
			key = MsgEnterFinal
		}
		return Result{Verdict: VerdictIncomplete, Message: Message(lang, key)}
	}
	if len(examples) == 0 {
		return Result{Verdict: VerdictIncomplete, Message: Message(lang, MsgNoExamples)}
	}
	if st.Example >= len(examples) {
		return Result{
			Verdict: VerdictCorrect,
			Message: Message(lang, MsgExplanationDone),
			Advance: AdvanceComplete,
			Submit:  true,
		}
	}
	ex := examples[st.Example]

	if st.ExampleStep == 0 {
		if !answer.Matches(answer.Normalize(input), answer.StepAnswerSet(ex.Step1Answers)) {
			return Result{
				Verdict: VerdictIncorrect,
				Message: Message(lang, MsgStepWrong, ex.Step1Prompt.In(lang)),
			}
		}
		return Result{Verdict: VerdictCorrect, Message: Message(lang, MsgExampleStepDone), Advance: AdvanceExampleStep}
	}

	if !answer.CheckFinal(input, ex.PracticeAnswer) {
		return Result{
			Verdict: VerdictIncorrect,
			Message: Message(lang, MsgStepWrong, ex.Step2Prompt.In(lang)),
		}
	}

	if st.Example < len(examples)-1 {
		return Result{Verdict: VerdictCorrect, Message: Message(lang, MsgExampleDone), Advance: AdvanceExample}
	}
	return Result{
		Verdict: VerdictCorrect,
		Message: Message(lang, MsgExplanationDone),
		Advance: AdvanceComplete,
		Submit:  true,
	}
}

// Examples returns the worked examples of an Explanation problem, falling
// back to the section's built-in examples when the backend sent none.
func Examples(p *problem.Problem) []problem.WorkedExample {
	if len(p.Examples) > 0 {
		return p.Examples
	}
	return curriculum.DefaultExamples(p.SectionID)
}
