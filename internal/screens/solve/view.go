package solve

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mutabayinat/internal/evaluate"
	"github.com/abhisek/mutabayinat/internal/inputbuf"
	"github.com/abhisek/mutabayinat/internal/screens"
	"github.com/abhisek/mutabayinat/internal/stage"
	"github.com/abhisek/mutabayinat/internal/ui/layout"
	"github.com/abhisek/mutabayinat/internal/ui/theme"
)

func (s *SolveScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.prob == nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.st.AwaitingRedirect:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Review explanation"},
			{Key: "E", Description: "Ask tutor"},
			{Key: "Esc", Description: "Back"},
		}
	case s.st.SaveFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry save"},
			{Key: "Esc", Description: "Back"},
		}
	case s.st.Correct:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Check"},
		{Key: "Tab", Description: "Keypad"},
	}
	if s.st.Input != nil && s.st.Input.Panel() == inputbuf.SourceKeyboard {
		hints = []layout.KeyHint{
			{Key: "←→↑↓", Description: "Key"},
			{Key: "Enter", Description: "Press"},
			{Key: "Esc", Description: "Close keypad"},
		}
	}
	hints = append(hints,
		layout.KeyHint{Key: "?", Description: "Hint"},
		layout.KeyHint{Key: "Ctrl+R", Description: "Speak"},
	)
	return hints
}

func (s *SolveScreen) View(width, height int) string {
	if s.prob == nil {
		if s.loading {
			return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.spin.View()+" Loading problem...")
		}
		return ""
	}

	lang := s.st.Lang
	inner := min(width-4, 76)
	compact := layout.IsCompactHeight(height)

	var b strings.Builder
	line := func(text string, style lipgloss.Style) {
		b.WriteString(layout.Paragraph(text, lang, inner, style))
		b.WriteString("\n")
	}

	header := fmt.Sprintf("%s · %s", s.sectionTitle(), screens.StageLabel(s.prob.ID, lang))
	line(header, theme.Subtitle)
	if s.st.Kind == stage.KindAssessment || s.st.ExamPrep {
		line(fmt.Sprintf("Score %d · Attempts %d", s.st.Score, s.st.Attempts), theme.Hint)
	}
	if !compact {
		b.WriteString("\n")
	}

	if title := s.prob.Title.In(lang); title != "" {
		line(title, theme.Title)
	}
	line(s.prob.Question.In(lang), theme.Math)
	b.WriteString("\n")

	switch s.st.Kind {
	case stage.KindPractice:
		s.viewSteps(&b, inner)
	case stage.KindExplanation:
		s.viewExample(&b, inner)
	}

	for i := 0; i < s.st.HintsRevealed; i++ {
		if h := s.prob.Hint(i, lang); h != "" {
			line("💡 "+h, theme.Hint)
		}
	}

	if s.st.Active() && !s.st.Correct {
		b.WriteString("\n")
		b.WriteString(s.viewField(inner))
		b.WriteString("\n")
	}

	if msg := s.st.VisibleMessage(s.now()); msg != "" {
		style := theme.Notice
		switch {
		case s.st.Correct:
			style = theme.Correct
		case s.st.AwaitingRedirect || s.st.SaveFailed:
			style = theme.Incorrect
		}
		b.WriteString("\n")
		line(msg, style)
	}
	if n := s.visibleNotice(); n != "" {
		line(n, theme.Notice)
	}

	switch {
	case s.submitting || s.explaining:
		b.WriteString("\n  " + s.spin.View() + "\n")
	case s.listening:
		b.WriteString("\n  " + s.spin.View() + " Listening...\n")
	case s.st.Input != nil && s.st.Input.Panel() == inputbuf.SourceKeyboard && s.st.Active():
		b.WriteString("\n")
		b.WriteString(s.keypad.View())
		b.WriteString("\n")
	}

	if s.ex != nil {
		b.WriteString("\n")
		s.viewExplanation(&b, inner)
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *SolveScreen) viewField(width int) string {
	text := s.st.Input.Current()
	if text == "" {
		text = theme.Hint.Render("type your answer")
	} else {
		text = theme.Math.Render(text) + "▏"
	}
	return theme.Field.Width(min(width, 40)).Align(layout.TextAlign(s.st.Lang)).Render(text)
}

func (s *SolveScreen) viewSteps(b *strings.Builder, width int) {
	lang := s.st.Lang
	for i, step := range s.prob.Steps {
		if i > s.st.Step && !s.st.AllStepsComplete {
			break
		}
		mark, style := "▸", theme.Body
		switch {
		case i < len(s.st.StepCorrect) && s.st.StepCorrect[i]:
			mark, style = "✓", theme.Correct
			if ans := s.st.Input.Get(inputbuf.Slot(i)); ans != "" {
				b.WriteString(layout.Paragraph(fmt.Sprintf("%s %s  %s", mark, step.Instruction.In(lang), ans), lang, width, style))
				b.WriteString("\n")
				continue
			}
		case i != s.st.Step:
			mark, style = "·", theme.Locked
		}
		b.WriteString(layout.Paragraph(mark+" "+step.Instruction.In(lang), lang, width, style))
		b.WriteString("\n")
	}
	if s.st.AllStepsComplete && s.prob.FinalAnswerRequired && !s.st.Correct {
		b.WriteString(layout.Paragraph("▸ "+evaluate.Message(lang, evaluate.MsgEnterFinal), lang, width, theme.Body))
		b.WriteString("\n")
	}
}

func (s *SolveScreen) viewExample(b *strings.Builder, width int) {
	lang := s.st.Lang
	examples := evaluate.Examples(s.prob)
	if s.st.Example >= len(examples) {
		return
	}
	ex := examples[s.st.Example]
	b.WriteString(layout.Paragraph(fmt.Sprintf("%d/%d  %s", s.st.Example+1, len(examples), ex.Title.In(lang)), lang, width, theme.Selected))
	b.WriteString("\n")
	b.WriteString(layout.Paragraph(ex.Body.In(lang), lang, width, theme.Body))
	b.WriteString("\n\n")
	prompt := ex.Step1Prompt
	if s.st.ExampleStep > 0 {
		prompt = ex.Step2Prompt
	}
	b.WriteString(layout.Paragraph("▸ "+prompt.In(lang), lang, width, theme.Math))
	b.WriteString("\n")
}

func (s *SolveScreen) viewExplanation(b *strings.Builder, width int) {
	lang := s.st.Lang
	if s.ex.Summary != "" {
		b.WriteString(layout.Paragraph(s.ex.Summary, lang, width, theme.Body))
		b.WriteString("\n")
	}
	for i, step := range s.ex.Steps {
		b.WriteString(layout.Paragraph(fmt.Sprintf("%d. %s", i+1, step), lang, width, theme.Body))
		b.WriteString("\n")
	}
	if s.ex.Encouragement != "" {
		b.WriteString(layout.Paragraph(s.ex.Encouragement, lang, width, theme.Hint))
		b.WriteString("\n")
	}
}

