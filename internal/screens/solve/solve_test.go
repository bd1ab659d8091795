package solve

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/spinner"

	"github.com/abhisek/mutabayinat/internal/backend"
	"github.com/abhisek/mutabayinat/internal/demoserver"
	"github.com/abhisek/mutabayinat/internal/inputbuf"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/progression"
	"github.com/abhisek/mutabayinat/internal/router"
	"github.com/abhisek/mutabayinat/internal/screens"
	"github.com/abhisek/mutabayinat/internal/tutor"
	"github.com/abhisek/mutabayinat/internal/ui/components"
	"github.com/abhisek/mutabayinat/internal/voice"
)

type fakeVoice struct {
	text string
	err  error
}

func (f fakeVoice) Available() bool {
	return true
}

func (f fakeVoice) Transcribe(context.Context, problem.Lang) (string, error) {
	return f.text, f.err
}

// waitingVoice listens until its context is cancelled.
type waitingVoice struct{}

func (waitingVoice) Available() bool {
	return true
}

func (waitingVoice) Transcribe(ctx context.Context, _ problem.Lang) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func newDeps(t *testing.T, rec voice.Recognizer) screens.Deps {
	t.Helper()
	cat, err := demoserver.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	srv := httptest.NewServer(demoserver.New(cat, demoserver.Options{}).Handler())
	t.Cleanup(srv.Close)

	client := backend.NewWithHTTPClient(srv.URL, srv.Client())
	c := progression.New(progression.Options{
		Backend:   client,
		Explainer: tutor.NewService(nil, tutor.DefaultConfig()),
		Username:  "amal",
		Lang:      problem.LangEN,
		Warnf:     func(string, ...any) {},
	})
	return screens.Deps{Controller: c, Sections: client, Auth: client, Voice: rec}
}

// run executes cmd the way the runtime would and feeds the screen's own
// results back into it. Timers and spinner ticks are not followed.
func run(s *SolveScreen, cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var other []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			other = append(other, run(s, c)...)
		}
	case enteredMsg, submittedMsg, heardMsg, explainedMsg, components.KeypadMsg:
		s.Update(msg)
	case spinner.TickMsg, expireMsg:
	default:
		other = append(other, msg)
	}
	return other
}

func press(s *SolveScreen, key string) []tea.Msg {
	var msg tea.KeyPressMsg
	switch key {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		msg = tea.KeyPressMsg{Code: tea.KeyTab}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	case "backspace":
		msg = tea.KeyPressMsg{Code: tea.KeyBackspace}
	case "right":
		msg = tea.KeyPressMsg{Code: tea.KeyRight}
	case "ctrl+r":
		msg = tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	case "ctrl+u":
		msg = tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl}
	default:
		r := []rune(key)[0]
		msg = tea.KeyPressMsg{Code: r, Text: key}
	}
	_, cmd := s.Update(msg)
	return run(s, cmd)
}

func typeText(s *SolveScreen, text string) {
	for _, r := range text {
		press(s, string(r))
	}
}

func open(t *testing.T, deps screens.Deps, id string) *SolveScreen {
	t.Helper()
	s := New(deps, id)
	run(s, s.Init())
	if s.prob == nil {
		t.Fatalf("problem %s did not load", id)
	}
	return s
}

func TestSolveScreen_LoadsProblem(t *testing.T) {
	s := open(t, newDeps(t, nil), "s1_prep")

	if s.ProblemID() != "s1_prep" {
		t.Errorf("ProblemID = %q", s.ProblemID())
	}
	if !strings.Contains(s.View(100, 30), "What is 12 - 5?") {
		t.Error("expected the question in the view")
	}
	if s.Title() != "Preparation" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestSolveScreen_TypingAndBackspace(t *testing.T) {
	s := open(t, newDeps(t, nil), "s1_prep")

	typeText(s, "78")
	press(s, "backspace")
	if got := s.State().Input.Current(); got != "7" {
		t.Errorf("input = %q, want %q", got, "7")
	}
}

func TestSolveScreen_CorrectThenNext(t *testing.T) {
	s := open(t, newDeps(t, nil), "s1_prep")

	typeText(s, "7")
	press(s, "enter")
	if !s.State().Correct {
		t.Fatal("expected the answer to be accepted")
	}
	if !strings.Contains(s.View(100, 30), "Correct") {
		t.Error("expected the feedback in the view")
	}

	press(s, "enter")
	if s.ProblemID() != "s1_explanation" {
		t.Errorf("ProblemID = %q, want s1_explanation", s.ProblemID())
	}
	if s.prob == nil || s.prob.ID != "s1_explanation" {
		t.Error("expected the explanation stage to be loaded")
	}
}

func TestSolveScreen_RedirectToExplanation(t *testing.T) {
	s := open(t, newDeps(t, nil), "s1_prep")

	for i := 0; i < 3; i++ {
		press(s, "ctrl+u")
		typeText(s, "9")
		press(s, "enter")
	}
	if !s.State().AwaitingRedirect {
		t.Fatal("expected the redirect after three wrong answers")
	}

	press(s, "e")
	if s.ex == nil || s.ex.Summary == "" {
		t.Error("expected an offline explanation")
	}

	press(s, "x")
	if s.ProblemID() != "s1_explanation" {
		t.Errorf("ProblemID = %q, want s1_explanation", s.ProblemID())
	}
}

func TestSolveScreen_Keypad(t *testing.T) {
	s := open(t, newDeps(t, nil), "s1_prep")

	press(s, "tab")
	if !s.ConsumesEscape() {
		t.Fatal("expected the open keypad to consume esc")
	}

	// The first key is the variable, the second is "<".
	press(s, "enter")
	press(s, "right")
	press(s, "enter")
	if got := s.State().Input.Current(); got != "x<" {
		t.Errorf("input = %q, want %q", got, "x<")
	}

	press(s, "esc")
	if s.ConsumesEscape() {
		t.Error("expected esc to close the keypad")
	}
}

func TestSolveScreen_LangChangeRebuildsKeypad(t *testing.T) {
	deps := newDeps(t, nil)
	s := open(t, deps, "s1_prep")

	deps.Controller.SetLang(context.Background(), problem.LangAR)
	s.Update(screens.LangChangedMsg{Lang: problem.LangAR})
	if got := s.keypad.Focused(); got != "س" {
		t.Errorf("keypad variable = %q, want س", got)
	}
	if !strings.Contains(s.View(100, 30), "كم يساوي") {
		t.Error("expected the Arabic question")
	}
}

func TestSolveScreen_Voice(t *testing.T) {
	s := open(t, newDeps(t, fakeVoice{text: "٧"}), "s1_prep")

	press(s, "ctrl+r")
	if got := s.State().Input.Current(); got != "٧" {
		t.Errorf("input = %q, want the transcript", got)
	}
	if s.State().Input.Panel() != inputbuf.SourceNone {
		t.Error("expected the voice panel to close")
	}
}

func TestSolveScreen_CloseStopsListening(t *testing.T) {
	s := open(t, newDeps(t, waitingVoice{}), "s1_prep")

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected a batch with the capture command")
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- batch[len(batch)-1]() }()

	s.Close()
	select {
	case msg := <-done:
		heard, ok := msg.(heardMsg)
		if !ok || !errors.Is(heard.err, context.Canceled) {
			t.Errorf("capture ended with %#v, want a cancelled result", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("speech capture kept running after the screen closed")
	}
}

func TestSolveScreen_PasteAppendsToAnswer(t *testing.T) {
	s := open(t, newDeps(t, nil), "s1_prep")

	typeText(s, "x")
	s.Update(tea.PasteMsg{Content: " >  5\n"})
	if got := s.State().Input.Current(); got != "x> 5" {
		t.Errorf("input = %q, want %q", got, "x> 5")
	}

	press(s, "ctrl+u")
	s.Update(tea.PasteMsg{Content: "7"})
	press(s, "enter")
	if !s.State().Correct {
		t.Fatal("expected the pasted answer to be accepted")
	}
	before := s.State().Input.Current()
	s.Update(tea.PasteMsg{Content: "9"})
	if got := s.State().Input.Current(); got != before {
		t.Errorf("input = %q, paste after completion should be ignored", got)
	}
}

func TestSolveScreen_VoiceUnavailable(t *testing.T) {
	s := open(t, newDeps(t, nil), "s1_prep")

	press(s, "ctrl+r")
	if !strings.Contains(s.View(100, 30), voice.ErrUnavailable.Error()) {
		t.Error("expected the unavailable notice")
	}
}

func TestSolveScreen_HintReveal(t *testing.T) {
	s := open(t, newDeps(t, nil), "s1_prep")

	press(s, "?")
	if s.State().HintsRevealed != 1 {
		t.Errorf("HintsRevealed = %d, want 1", s.State().HintsRevealed)
	}
}

func TestSolveScreen_LockedStagePops(t *testing.T) {
	deps := newDeps(t, nil)
	prep := open(t, deps, "s1_prep")
	typeText(prep, "7")
	press(prep, "enter")
	prep.Close()

	s := New(deps, "s1_assessment")
	_, cmd := s.Update(s.enter("s1_assessment")())

	if s.prob != nil {
		t.Error("expected the locked stage not to load")
	}
	if cmd == nil {
		t.Fatal("expected the screen to close itself")
	}
	if _, ok := cmd().(router.PopScreenMsg); ok {
		t.Error("expected pop followed by a notice, got a bare pop")
	}
}

func TestSolveScreen_CloseLeavesProblem(t *testing.T) {
	deps := newDeps(t, nil)
	s := open(t, deps, "s1_prep")

	s.Close()
	if deps.Controller.Problem() != nil {
		t.Error("expected Close to leave the problem")
	}
}

func TestSolveScreen_KeyHintsFollowState(t *testing.T) {
	s := open(t, newDeps(t, nil), "s1_prep")

	if hints := s.KeyHints(); hints[0].Description != "Check" {
		t.Errorf("first hint = %q, want Check", hints[0].Description)
	}
	typeText(s, "7")
	press(s, "enter")
	if hints := s.KeyHints(); hints[0].Description != "Next" {
		t.Errorf("first hint = %q, want Next", hints[0].Description)
	}
}
