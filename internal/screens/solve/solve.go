// Package solve is the problem screen: it shows one problem, feeds typing,
// the keypad and voice into the session's input buffer, and drives the
// progression controller.
package solve

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mutabayinat/internal/curriculum"
	"github.com/abhisek/mutabayinat/internal/inputbuf"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/progression"
	"github.com/abhisek/mutabayinat/internal/router"
	"github.com/abhisek/mutabayinat/internal/screen"
	"github.com/abhisek/mutabayinat/internal/screens"
	"github.com/abhisek/mutabayinat/internal/screens/summary"
	"github.com/abhisek/mutabayinat/internal/session"
	"github.com/abhisek/mutabayinat/internal/tutor"
	"github.com/abhisek/mutabayinat/internal/ui/components"
	"github.com/abhisek/mutabayinat/internal/voice"
)

// noticeTTL is how long screen-level notices (voice, tutor) stay visible.
const noticeTTL = 4 * time.Second

// SolveScreen implements screen.Screen for one problem at a time.
type SolveScreen struct {
	deps screens.Deps
	id   string

	gen     int
	loading bool
	prob    *problem.Problem
	st      session.State

	submitting bool
	listening  bool
	explaining bool
	ex         *tutor.Explanation

	keypad components.Keypad
	spin   spinner.Model

	stopListening context.CancelFunc

	notice      string
	noticeUntil time.Time

	now func() time.Time
}

var _ screen.Screen = (*SolveScreen)(nil)
var _ screen.KeyHintProvider = (*SolveScreen)(nil)
var _ screen.Closer = (*SolveScreen)(nil)
var _ screen.EscapeConsumer = (*SolveScreen)(nil)

// New creates a SolveScreen that opens problemID.
func New(deps screens.Deps, problemID string) *SolveScreen {
	if deps.Voice == nil {
		deps.Voice = voice.Unavailable{}
	}
	return &SolveScreen{
		deps:   deps,
		id:     problemID,
		keypad: components.NewKeypad(deps.Controller.Lang()),
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		now:    time.Now,
	}
}

func (s *SolveScreen) Init() tea.Cmd {
	return tea.Batch(s.enter(s.id), s.spin.Tick)
}

func (s *SolveScreen) Title() string {
	if s.prob == nil {
		return "Problem"
	}
	return screens.StageLabel(s.prob.ID, s.st.Lang)
}

// Close leaves the problem when the screen is popped or replaced.
func (s *SolveScreen) Close() {
	s.gen++
	s.cancelListening()
	s.deps.Controller.Leave()
}

// ConsumesEscape reports whether esc closes the keypad instead of leaving.
func (s *SolveScreen) ConsumesEscape() bool {
	return s.st.Input != nil && s.st.Input.Panel() == inputbuf.SourceKeyboard
}

// ProblemID returns the problem currently shown.
func (s *SolveScreen) ProblemID() string {
	return s.id
}

// State returns the last session state the screen rendered.
func (s *SolveScreen) State() session.State {
	return s.st
}

func (s *SolveScreen) enter(id string) tea.Cmd {
	s.gen++
	s.id = id
	s.loading = true
	s.prob = nil
	s.ex = nil
	s.cancelListening()
	s.submitting, s.listening, s.explaining = false, false, false
	s.notice = ""

	gen, c := s.gen, s.deps.Controller
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		st, err := c.Enter(ctx, id)
		return enteredMsg{gen: gen, state: st, prob: c.Problem(), err: err}
	}
}

func (s *SolveScreen) busy() bool {
	return s.loading || s.submitting || s.listening || s.explaining
}

func (s *SolveScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case enteredMsg:
		return s.handleEntered(msg)
	case submittedMsg:
		return s.handleSubmitted(msg)
	case heardMsg:
		return s.handleHeard(msg)
	case explainedMsg:
		return s.handleExplained(msg)
	case components.KeypadMsg:
		return s, s.handleKeypad(msg)
	case expireMsg:
		return s, nil
	case spinner.TickMsg:
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd
	case screens.LangChangedMsg:
		s.keypad = components.NewKeypad(msg.Lang)
		s.st = s.deps.Controller.State()
		return s, nil
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	case tea.PasteMsg:
		s.paste(msg.Content)
		return s, nil
	}
	return s, nil
}

func (s *SolveScreen) handleEntered(msg enteredMsg) (screen.Screen, tea.Cmd) {
	if msg.gen != s.gen {
		return s, nil
	}
	s.loading = false
	if msg.err != nil {
		if errors.Is(msg.err, progression.ErrSessionClosed) {
			return s, nil
		}
		text := progression.UserMessage(s.deps.Controller.Lang(), msg.err)
		return s, tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			func() tea.Msg { return screens.NoticeMsg{Text: text} },
		)
	}
	s.st = msg.state
	s.prob = msg.prob
	s.keypad = components.NewKeypad(s.st.Lang)
	return s, nil
}

func (s *SolveScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.prob == nil || s.loading {
		return s, nil
	}
	key := msg.String()

	switch {
	case s.st.AwaitingRedirect:
		switch key {
		case "x", "enter":
			return s, s.enter(s.st.SectionID + "_explanation")
		case "e", "ctrl+e":
			return s, s.explain()
		}
		return s, nil
	case s.st.SaveFailed:
		if key == "r" || key == "enter" {
			return s, s.retrySave()
		}
		return s, nil
	case s.st.Correct:
		if key == "n" || key == "enter" {
			return s, s.next()
		}
		return s, nil
	case s.st.Active():
		return s, s.handleInputKey(msg, key)
	}
	return s, nil
}

func (s *SolveScreen) handleInputKey(msg tea.KeyPressMsg, key string) tea.Cmd {
	panel := s.st.Input.Panel()

	switch key {
	case "tab":
		s.edit(func(b *inputbuf.Buffer) { b.TogglePanel(inputbuf.SourceKeyboard) })
		return nil
	case "esc":
		s.edit(func(b *inputbuf.Buffer) { b.ClosePanel() })
		return nil
	case "?", "ctrl+t":
		return s.hint()
	case "ctrl+r":
		return s.listen()
	case "backspace":
		s.edit(func(b *inputbuf.Buffer) { b.Backspace(b.Target()) })
		return nil
	case "ctrl+u":
		s.edit(func(b *inputbuf.Buffer) { b.Clear(b.Target()) })
		return nil
	}

	if panel == inputbuf.SourceKeyboard {
		switch key {
		case "left", "right", "up", "down", "enter", "space":
			var cmd tea.Cmd
			s.keypad, cmd = s.keypad.Update(msg)
			return cmd
		}
	}

	if key == "enter" {
		return s.submit()
	}

	if msg.Text != "" && msg.Mod&(tea.ModCtrl|tea.ModAlt) == 0 {
		text := msg.Text
		s.edit(func(b *inputbuf.Buffer) { b.Insert(b.Target(), text) })
	}
	return nil
}

func (s *SolveScreen) handleKeypad(msg components.KeypadMsg) tea.Cmd {
	switch msg.Action {
	case components.KeyBackspace:
		s.edit(func(b *inputbuf.Buffer) { b.Backspace(b.Target()) })
	case components.KeyClear:
		s.edit(func(b *inputbuf.Buffer) { b.Clear(b.Target()) })
	default:
		text := msg.Text
		s.edit(func(b *inputbuf.Buffer) { b.Insert(b.Target(), text) })
	}
	return nil
}

// paste appends pasted text to the active slot. Line breaks are dropped
// since an answer is a single line.
func (s *SolveScreen) paste(content string) {
	if s.prob == nil || s.loading || s.st.SaveFailed || !s.st.Active() {
		return
	}
	text := strings.Join(strings.Fields(content), " ")
	if text == "" {
		return
	}
	s.edit(func(b *inputbuf.Buffer) {
		slot := b.Target()
		b.SetDirect(slot, b.Get(slot)+text)
	})
}

func (s *SolveScreen) edit(fn func(b *inputbuf.Buffer)) {
	s.st = s.deps.Controller.EditInput(fn)
}

func (s *SolveScreen) submit() tea.Cmd {
	if s.submitting {
		s.setNotice(progression.UserMessage(s.st.Lang, progression.ErrBusy))
		return nil
	}
	s.submitting = true
	gen, c, deps := s.gen, s.deps.Controller, s.deps
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		out, err := c.Submit(ctx)
		return submittedMsg{gen: gen, out: out, err: err}
	})
}

func (s *SolveScreen) retrySave() tea.Cmd {
	if s.submitting {
		return nil
	}
	s.submitting = true
	gen, c, deps := s.gen, s.deps.Controller, s.deps
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		out, err := c.RetrySave(ctx)
		return submittedMsg{gen: gen, out: out, err: err}
	})
}

func (s *SolveScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if msg.gen != s.gen {
		return s, nil
	}
	s.submitting = false
	if msg.err != nil {
		if errors.Is(msg.err, progression.ErrSessionClosed) {
			return s, nil
		}
		s.setNotice(progression.UserMessage(s.st.Lang, msg.err))
		return s, s.expireAfter(noticeTTL)
	}
	s.st = msg.out.State
	if !s.st.MessageExpiry.IsZero() {
		return s, s.expireAfter(s.st.MessageExpiry.Sub(s.now()))
	}
	return s, nil
}

func (s *SolveScreen) hint() tea.Cmd {
	st, err := s.deps.Controller.RevealHint()
	if err != nil {
		return nil
	}
	s.st = st
	if !st.MessageExpiry.IsZero() {
		return s.expireAfter(st.MessageExpiry.Sub(s.now()))
	}
	return nil
}

func (s *SolveScreen) listen() tea.Cmd {
	if s.listening {
		return nil
	}
	if !s.deps.Voice.Available() {
		s.setNotice(voice.ErrUnavailable.Error())
		return s.expireAfter(noticeTTL)
	}
	s.edit(func(b *inputbuf.Buffer) { b.OpenPanel(inputbuf.SourceVoice) })
	s.listening = true
	ctx, cancel := context.WithCancel(context.Background())
	s.stopListening = cancel
	gen, rec, lang := s.gen, s.deps.Voice, s.st.Lang
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		defer cancel()
		text, err := rec.Transcribe(ctx, lang)
		return heardMsg{gen: gen, text: text, err: err}
	})
}

// cancelListening stops a speech capture that is still running.
func (s *SolveScreen) cancelListening() {
	if s.stopListening != nil {
		s.stopListening()
		s.stopListening = nil
	}
}

func (s *SolveScreen) handleHeard(msg heardMsg) (screen.Screen, tea.Cmd) {
	if msg.gen != s.gen {
		return s, nil
	}
	s.listening = false
	s.stopListening = nil
	if msg.err != nil {
		s.edit(func(b *inputbuf.Buffer) { b.ClosePanel() })
		s.setNotice(msg.err.Error())
		return s, s.expireAfter(noticeTTL)
	}
	text := msg.text
	s.edit(func(b *inputbuf.Buffer) {
		b.SetFromVoice(b.Target(), text)
		b.ClosePanel()
	})
	return s, nil
}

func (s *SolveScreen) explain() tea.Cmd {
	if s.explaining || s.ex != nil {
		return nil
	}
	s.explaining = true
	gen, c, deps := s.gen, s.deps.Controller, s.deps
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		ex, err := c.Explain(ctx)
		return explainedMsg{gen: gen, ex: ex, err: err}
	})
}

func (s *SolveScreen) handleExplained(msg explainedMsg) (screen.Screen, tea.Cmd) {
	if msg.gen != s.gen {
		return s, nil
	}
	s.explaining = false
	if msg.ex != nil {
		s.ex = msg.ex
	}
	if msg.err != nil && msg.ex == nil {
		s.setNotice(msg.err.Error())
		return s, s.expireAfter(noticeTTL)
	}
	return s, nil
}

// next moves to the following stage, or to the section summary after the
// last one.
func (s *SolveScreen) next() tea.Cmd {
	step, err := s.deps.Controller.Next()
	if err != nil {
		return nil
	}
	if !step.SectionComplete {
		return s.enter(step.ProblemID)
	}
	c := s.deps.Controller
	sum := summary.New(step.SectionID, c.Progress(), c.Lang(), step.NextSection)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
}

func (s *SolveScreen) setNotice(text string) {
	s.notice = text
	s.noticeUntil = s.now().Add(noticeTTL)
}

func (s *SolveScreen) visibleNotice() string {
	if s.notice == "" || s.now().After(s.noticeUntil) {
		return ""
	}
	return s.notice
}

func (s *SolveScreen) expireAfter(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d+50*time.Millisecond, func(time.Time) tea.Msg { return expireMsg{} })
}

// sectionTitle is the title of the section the problem belongs to.
func (s *SolveScreen) sectionTitle() string {
	if sec, ok := curriculum.Lookup(s.st.SectionID); ok {
		return sec.Title.In(s.st.Lang)
	}
	return s.st.SectionID
}
