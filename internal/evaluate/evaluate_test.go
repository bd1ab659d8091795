package evaluate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mutabayinat/internal/inputbuf"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/session"
	"github.com/abhisek/mutabayinat/internal/stage"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func start(p *problem.Problem, lang problem.Lang) *session.State {
	st := session.New("test-session")
	kind := stage.Classify(p.Type, p.ID)
	st.Load(p, kind, stage.IsExamPrep(p.Type, p.ID), lang)
	return st
}

// submit evaluates input with the evaluator for the state's kind and
// applies the result, as the controller does.
func submit(p *problem.Problem, st *session.State, input string) Result {
	st.LastInput = input
	r := For(st.Kind).Evaluate(p, st, input)
	Apply(st, r, now)
	return r
}

func TestScenarioA_PreparationBareNumber(t *testing.T) {
	p := &problem.Problem{ID: "s1_prep", SectionID: "s1", Answer: "7"}
	st := start(p, problem.LangEN)

	r := submit(p, st, "7")

	assert.Equal(t, VerdictCorrect, r.Verdict)
	assert.True(t, r.Submit)
	assert.True(t, st.Correct)
	assert.Equal(t, session.InitialScore, st.Score)
	assert.Equal(t, Message(problem.LangEN, MsgCorrect), st.Message)
}

func TestPreparation_ArabicInputAgainstLatinAnswer(t *testing.T) {
	p := &problem.Problem{ID: "s1_prep", SectionID: "s1", Answer: "x = 7"}
	st := start(p, problem.LangAR)

	r := submit(p, st, "٧")
	assert.Equal(t, VerdictCorrect, r.Verdict)

	st = start(p, problem.LangAR)
	r = submit(p, st, "س=٧")
	assert.Equal(t, VerdictCorrect, r.Verdict)
}

func TestPreparation_EmptyInputIsIncomplete(t *testing.T) {
	p := &problem.Problem{ID: "s1_prep", Answer: "x>5"}
	st := start(p, problem.LangEN)

	r := submit(p, st, "   ")

	assert.Equal(t, VerdictIncomplete, r.Verdict)
	assert.Equal(t, 0, st.Attempts)
	assert.Equal(t, Message(problem.LangEN, MsgEnterFinal), st.Message)
	assert.Equal(t, now.Add(NoticeTTL), st.MessageExpiry)
}

func TestPreparation_HintsThenRedirect(t *testing.T) {
	p := &problem.Problem{
		ID:     "s1_prep",
		Answer: "x>5",
		Hints: []problem.Text{
			{EN: "Subtract 4 from both sides."},
			{EN: "9 - 4 = 5."},
			{EN: "never shown"},
		},
	}
	st := start(p, problem.LangEN)

	r := submit(p, st, "x>4")
	assert.Equal(t, VerdictIncorrect, r.Verdict)
	assert.Equal(t, 1, st.HintsRevealed)
	assert.Contains(t, st.Message, "Subtract 4 from both sides.")

	submit(p, st, "x<5")
	assert.Equal(t, 2, st.HintsRevealed)
	assert.Contains(t, st.Message, "9 - 4 = 5.")

	r = submit(p, st, "x>6")
	assert.True(t, r.Effects.Redirect)
	assert.True(t, st.AwaitingRedirect)
	assert.Equal(t, 2, st.HintsRevealed)
	assert.Equal(t, 3, st.Attempts)
	assert.Equal(t, session.InitialScore, st.Score)

	// A correct answer after the redirect is not accepted either.
	r = submit(p, st, "x>5")
	assert.True(t, r.Locked)
	assert.False(t, st.Correct)
	assert.Equal(t, 3, st.Attempts)
}

func TestScenarioC_AssessmentScoring(t *testing.T) {
	p := &problem.Problem{
		ID:     "s1_assessment",
		Answer: "x≥3",
		Hints: []problem.Text{
			{EN: "Undo the addition.", AR: "تخلّص من الجمع."},
			{EN: "Divide by the coefficient.", AR: "اقسم على المعامل."},
		},
	}
	st := start(p, problem.LangEN)
	require.Equal(t, stage.KindAssessment, st.Kind)

	submit(p, st, "x≥4")
	assert.Equal(t, 85, st.Score)
	assert.Equal(t, 1, st.HintsUsed())

	submit(p, st, "x>3")
	assert.Equal(t, 70, st.Score)
	assert.Equal(t, 2, st.HintsUsed())
	assert.Equal(t, Message(problem.LangEN, MsgWrongScoredHint, 70, 2, "Divide by the coefficient."), st.Message)

	r := submit(p, st, "x ≥ 3")
	assert.Equal(t, VerdictCorrect, r.Verdict)
	assert.True(t, r.Submit)
	assert.Equal(t, 70, st.Score)
	assert.Equal(t, 2, st.HintsUsed())
	assert.Equal(t, Message(problem.LangEN, MsgCorrectScored, 70, 2), r.Message)
	assert.Equal(t, "x ≥ 3", st.LastInput)
}

func TestAssessment_ThirdAttemptStopsScoring(t *testing.T) {
	p := &problem.Problem{ID: "s2_examprep", Answer: "x<4", Hints: []problem.Text{{EN: "a"}, {EN: "b"}, {EN: "c"}}}
	st := start(p, problem.LangEN)
	require.True(t, st.ExamPrep)

	for _, in := range []string{"x<3", "x<2", "x<1"} {
		submit(p, st, in)
	}
	assert.True(t, st.AwaitingRedirect)
	assert.Equal(t, 70, st.Score)
	assert.Equal(t, 2, st.HintsRevealed)

	r := submit(p, st, "x<0")
	assert.True(t, r.Locked)
	assert.Equal(t, 70, st.Score)
	assert.Equal(t, 2, st.HintsRevealed)
	assert.Equal(t, 3, st.Attempts)
	assert.Equal(t, Message(problem.LangEN, MsgRedirect), st.Message)
}

func TestAssessment_ManualHintKeepsCount(t *testing.T) {
	p := &problem.Problem{ID: "s1_assessment", Answer: "x>5", Hints: []problem.Text{{EN: "a"}, {EN: "b"}}}
	st := start(p, problem.LangEN)
	st.HintsRevealed = 2

	submit(p, st, "x>1")
	assert.Equal(t, 2, st.HintsRevealed)
	assert.Equal(t, 85, st.Score)
}

func TestScoringPolicy_Floor(t *testing.T) {
	steep := ScoringPolicy{Enabled: true, Base: 100, Penalty: 40, Floor: 10, ScoredAttempts: 10}
	for n := 0; n <= 20; n++ {
		assert.GreaterOrEqual(t, steep.ScoreAfter(n), 10, "attempts=%d", n)
		assert.GreaterOrEqual(t, PenaltyPerAttempt.ScoreAfter(n), 10, "attempts=%d", n)
	}
	assert.Equal(t, 10, steep.ScoreAfter(3))
	assert.Equal(t, 100, PenaltyPerAttempt.ScoreAfter(0))
	assert.Equal(t, 70, PenaltyPerAttempt.ScoreAfter(5))
	assert.Equal(t, session.InitialScore, NoScoring.ScoreAfter(4))
}

func practiceProblem(step1 []string, step1Type problem.StepType) *problem.Problem {
	return &problem.Problem{
		ID:        "s1_practice1",
		SectionID: "s1",
		Answer:    "x≤11",
		Steps: []problem.Step{
			{
				Instruction: problem.Text{EN: "Add 6 to both sides.", AR: "أضف ٦ إلى الطرفين."},
				Answers:     problem.Answers{EN: step1},
				Type:        step1Type,
			},
			{
				Instruction: problem.Text{EN: "Write the final answer."},
				Answers:     problem.Answers{EN: []string{"x≤11"}},
				Type:        problem.StepFinalAnswer,
			},
		},
	}
}

func TestScenarioB_GuardScope(t *testing.T) {
	// Step 1 expects an inequality: a wrong inequality is just wrong.
	p := practiceProblem([]string{"x≤5"}, problem.StepIntermediate)
	st := start(p, problem.LangEN)

	r := submit(p, st, "x>5")
	assert.Equal(t, VerdictIncorrect, r.Verdict)
	assert.Equal(t, Message(problem.LangEN, MsgStepWrong, "Add 6 to both sides."), r.Message)

	r = submit(p, st, "x ≤ 5")
	assert.Equal(t, VerdictCorrect, r.Verdict)
	assert.Equal(t, 1, st.Step)

	// Step 1 expects arithmetic only: any inequality is work-skipping.
	p = practiceProblem([]string{"5+6"}, problem.StepIntermediate)
	st = start(p, problem.LangEN)

	r = submit(p, st, "x>5")
	assert.Equal(t, Message(problem.LangEN, MsgShowWork), r.Message)
	r = submit(p, st, "x≤11")
	assert.Equal(t, Message(problem.LangEN, MsgShowWork), r.Message)
	assert.Equal(t, 0, st.Step)
	assert.Equal(t, 2, st.StepAttempts[0])

	// A step tagged final_answer is never guarded.
	p = practiceProblem([]string{"5+6"}, problem.StepFinalAnswer)
	st = start(p, problem.LangEN)
	r = submit(p, st, "x>5")
	assert.Equal(t, Message(problem.LangEN, MsgStepWrong, "Add 6 to both sides."), r.Message)
}

func TestPractice_GuardRejectsFinalShapesOnEveryArithmeticStep(t *testing.T) {
	p := &problem.Problem{
		ID: "s3_practice2",
		Steps: []problem.Step{
			{Answers: problem.Answers{EN: []string{"2x=11-3"}}},
			{Answers: problem.Answers{EN: []string{"8/2"}}},
			{Answers: problem.Answers{EN: []string{"x>4"}}, Type: problem.StepFinalAnswer},
		},
	}
	for step := 0; step < 2; step++ {
		for _, in := range []string{"x>4", "x<4", "x>=4", "x ≤ 4", "س ≥ ٤"} {
			st := start(p, problem.LangEN)
			st.Step = step
			r := Practice{}.Evaluate(p, st, in)
			assert.Equal(t, VerdictIncorrect, r.Verdict, "step %d input %q", step, in)
			assert.Equal(t, Message(problem.LangEN, MsgShowWork), r.Message, "step %d input %q", step, in)
		}
	}
}

func TestPractice_WalksStepsAndSubmits(t *testing.T) {
	p := practiceProblem([]string{"x≤5+6"}, problem.StepIntermediate)
	st := start(p, problem.LangAR)

	r := submit(p, st, "")
	assert.Equal(t, VerdictIncomplete, r.Verdict)

	r = submit(p, st, "س ≤ ٥ + ٦")
	require.Equal(t, VerdictCorrect, r.Verdict)
	assert.Equal(t, AdvanceStep, r.Advance)
	assert.True(t, st.StepCorrect[0])
	assert.Equal(t, inputbuf.Slot(1), st.Input.Active())

	r = submit(p, st, "س≤١١")
	require.Equal(t, VerdictCorrect, r.Verdict)
	assert.True(t, r.Submit)
	assert.True(t, st.Correct)
	assert.True(t, st.StepCorrect[1])
}

func TestPractice_LanguageFallback(t *testing.T) {
	p := &problem.Problem{
		ID: "s1_practice2",
		Steps: []problem.Step{
			{Answers: problem.Answers{AR: []string{"٩-٤"}}},
			{Answers: problem.Answers{EN: []string{"x>5"}, AR: []string{"س>٥"}}, Type: problem.StepFinalAnswer},
		},
	}
	st := start(p, problem.LangEN)
	r := submit(p, st, "9 - 4")
	assert.Equal(t, VerdictCorrect, r.Verdict)
}

func TestPractice_FinalAnswerRequired(t *testing.T) {
	p := practiceProblem([]string{"x≤5+6"}, problem.StepIntermediate)
	p.FinalAnswerRequired = true
	st := start(p, problem.LangEN)

	submit(p, st, "x≤5+6")
	r := submit(p, st, "x≤11")
	assert.Equal(t, AdvanceAllSteps, r.Advance)
	assert.False(t, r.Submit)
	assert.True(t, st.AllStepsComplete)
	assert.Equal(t, FinalAnswerSlot(st), st.Input.Active())

	r = submit(p, st, "x≤12")
	assert.Equal(t, VerdictIncorrect, r.Verdict)

	r = submit(p, st, "x <= 11")
	assert.Equal(t, VerdictCorrect, r.Verdict)
	assert.True(t, r.Submit)
	assert.True(t, st.Correct)
}

func TestExplanation_WalksExamples(t *testing.T) {
	// No examples from the backend: the section defaults are used.
	p := &problem.Problem{ID: "s1_explanation", SectionID: "s1"}
	st := start(p, problem.LangEN)
	require.Len(t, Examples(p), 2)

	st.Input.Insert(st.Input.Target(), "x>9-4")
	r := submit(p, st, st.Input.Current())
	require.Equal(t, VerdictCorrect, r.Verdict)
	assert.Equal(t, 1, st.ExampleStep)
	assert.Equal(t, inputbuf.ExplanationStep2, st.Input.Target())

	r = submit(p, st, "x>4")
	assert.Equal(t, VerdictIncorrect, r.Verdict)

	st.Input.Insert(st.Input.Target(), "x > 5")
	r = submit(p, st, st.Input.Current())
	require.Equal(t, AdvanceExample, r.Advance)
	assert.Equal(t, 1, st.Example)
	assert.Equal(t, 0, st.ExampleStep)
	assert.Equal(t, "", st.Input.Get(inputbuf.ExplanationStep1))
	assert.Equal(t, "", st.Input.Get(inputbuf.ExplanationStep2))
	assert.False(t, r.Submit)

	submit(p, st, "x≤7+3")
	r = submit(p, st, "x≤10")
	assert.Equal(t, AdvanceComplete, r.Advance)
	assert.True(t, r.Submit)
	assert.True(t, st.Correct)
}

func TestExplanation_NoExamplesNeverCompletes(t *testing.T) {
	p := &problem.Problem{ID: "algebra_explanation", SectionID: "algebra"}
	st := start(p, problem.LangEN)
	require.Empty(t, Examples(p))

	r := submit(p, st, "")
	assert.Equal(t, VerdictIncomplete, r.Verdict)
	assert.Equal(t, Message(problem.LangEN, MsgEnterStep), r.Message)
	assert.False(t, r.Submit)

	r = submit(p, st, "x>5")
	assert.Equal(t, VerdictIncomplete, r.Verdict)
	assert.Equal(t, Message(problem.LangEN, MsgNoExamples), r.Message)
	assert.False(t, r.Submit)
	assert.False(t, st.Correct)
}

func TestExplanation_Step1UsesExampleAnswersOnly(t *testing.T) {
	p := &problem.Problem{
		ID: "s2_explanation",
		Steps: []problem.Step{
			{Answers: problem.Answers{EN: []string{"unrelated"}}},
		},
		Examples: []problem.WorkedExample{{
			Step1Prompt:    problem.Text{EN: "Divide by 3."},
			Step1Answers:   []string{"x<12/3"},
			PracticeAnswer: "x<4",
		}},
	}
	st := start(p, problem.LangEN)

	r := submit(p, st, "unrelated")
	assert.Equal(t, VerdictIncorrect, r.Verdict)
	assert.Equal(t, Message(problem.LangEN, MsgStepWrong, "Divide by 3."), r.Message)

	// Skipping to step 2's answer is not accepted in step 1.
	r = submit(p, st, "x<4")
	assert.Equal(t, VerdictIncorrect, r.Verdict)

	submit(p, st, "x < 12 / 3")
	r = submit(p, st, "x<4")
	assert.True(t, r.Submit)
}

func TestFor_SelectsEvaluatorByKind(t *testing.T) {
	assert.Equal(t, FinalAnswer{Policy: NoScoring, MaxAttempts: MaxAttemptsBeforeRedirect}, For(stage.KindPreparation))
	assert.Equal(t, FinalAnswer{Policy: PenaltyPerAttempt, MaxAttempts: MaxAttemptsBeforeRedirect}, For(stage.KindAssessment))
	assert.IsType(t, Practice{}, For(stage.KindPractice))
	assert.IsType(t, Explanation{}, For(stage.KindExplanation))
}

func TestMessage_Arabic(t *testing.T) {
	assert.Equal(t, "إجابة صحيحة! الدرجة: 85. التلميحات المستخدمة: 1.", Message(problem.LangAR, MsgCorrectScored, 85, 1))
}
