package session

import (
	"testing"
	"time"

	"github.com/abhisek/mutabayinat/internal/inputbuf"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/stage"
)

func stepped() *problem.Problem {
	return &problem.Problem{
		ID:        "s1_practice1",
		SectionID: "s1",
		Steps: []problem.Step{
			{Answers: problem.Answers{EN: []string{"x+4-4>9-4"}}},
			{Answers: problem.Answers{EN: []string{"x>5"}}, Type: problem.StepFinalAnswer},
		},
	}
}

func TestNew_StartsClean(t *testing.T) {
	s := New("sess-1")

	if s.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", s.SessionID)
	}
	if s.Score != InitialScore {
		t.Errorf("Score = %d, want %d", s.Score, InitialScore)
	}
	if !s.Active() {
		t.Error("expected a fresh state to be active")
	}
}

func TestReset_ClearsEveryField(t *testing.T) {
	s := New("old")
	s.Load(stepped(), stage.KindPractice, false, problem.LangAR)
	s.Step = 1
	s.StepCorrect[0] = true
	s.StepAttempts[1] = 2
	s.HintsRevealed = 2
	s.Score = 70
	s.Attempts = 2
	s.SetMessage("try again", time.Second, time.Now())
	s.AllStepsComplete = true
	s.AwaitingRedirect = true
	s.Correct = true
	s.Submitted = true
	s.SaveFailed = true
	s.Example = 1
	s.ExampleStep = 1
	s.LastInput = "x>5"
	s.Explanation = "because"
	s.WrongAnswers = []string{"x<5"}
	s.Input.Insert(1, "x")
	s.Input.OpenPanel(inputbuf.SourceKeyboard)

	s.Reset("new")

	want := New("new")
	want.Lang = s.Lang
	got := s.Snapshot()
	exp := want.Snapshot()

	if got.SessionID != exp.SessionID || got.ProblemID != exp.ProblemID ||
		got.Step != exp.Step || got.Score != exp.Score || got.Attempts != exp.Attempts ||
		got.HintsRevealed != exp.HintsRevealed || got.Message != exp.Message ||
		!got.MessageExpiry.Equal(exp.MessageExpiry) || got.AllStepsComplete ||
		got.AwaitingRedirect || got.Correct || got.Submitted || got.SaveFailed ||
		got.Example != 0 || got.ExampleStep != 0 || got.LastInput != "" ||
		got.Explanation != "" || got.StepCorrect != nil || got.StepAttempts != nil ||
		got.WrongAnswers != nil {
		t.Errorf("Reset left stale state: %+v", got)
	}
	if s.Input.Get(1) != "" {
		t.Errorf("input slot 1 = %q, want empty", s.Input.Get(1))
	}
	if s.Input.Panel() != inputbuf.SourceNone {
		t.Errorf("panel = %v, want none", s.Input.Panel())
	}
}

func TestLoad_SizesPerStepState(t *testing.T) {
	s := New("id")
	s.Load(stepped(), stage.KindPractice, false, problem.LangEN)

	if len(s.StepCorrect) != 2 || len(s.StepAttempts) != 2 {
		t.Fatalf("per-step state not sized: %d/%d", len(s.StepCorrect), len(s.StepAttempts))
	}
	if s.ProblemID != "s1_practice1" || s.SectionID != "s1" {
		t.Errorf("ids not bound: %q %q", s.ProblemID, s.SectionID)
	}
}

func TestLoad_ExplanationTargetsExplanationSlot(t *testing.T) {
	s := New("id")
	s.Load(&problem.Problem{ID: "s1_explanation"}, stage.KindExplanation, false, problem.LangEN)

	if got := s.Input.Target(); got != inputbuf.ExplanationStep1 {
		t.Errorf("Target = %d, want ExplanationStep1", got)
	}
}

func TestSnapshot_IsIndependent(t *testing.T) {
	s := New("id")
	s.Load(stepped(), stage.KindPractice, false, problem.LangEN)
	s.Input.Insert(0, "x")

	snap := s.Snapshot()
	s.StepCorrect[0] = true
	s.Input.Insert(0, "y")

	if snap.StepCorrect[0] {
		t.Error("snapshot shares StepCorrect with state")
	}
	if snap.Input.Get(0) != "x" {
		t.Errorf("snapshot input = %q, want x", snap.Input.Get(0))
	}
}

func TestVisibleMessage_Expires(t *testing.T) {
	s := New("id")
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	s.SetMessage("nice", 2*time.Second, now)
	if got := s.VisibleMessage(now.Add(time.Second)); got != "nice" {
		t.Errorf("VisibleMessage = %q, want nice", got)
	}
	if got := s.VisibleMessage(now.Add(3 * time.Second)); got != "" {
		t.Errorf("VisibleMessage after expiry = %q, want empty", got)
	}

	s.SetMessage("sticky", 0, now)
	if got := s.VisibleMessage(now.Add(time.Hour)); got != "sticky" {
		t.Errorf("VisibleMessage = %q, want sticky", got)
	}
}
