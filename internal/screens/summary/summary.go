package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mutabayinat/internal/curriculum"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/router"
	"github.com/abhisek/mutabayinat/internal/screen"
	"github.com/abhisek/mutabayinat/internal/screens"
	"github.com/abhisek/mutabayinat/internal/ui/layout"
	"github.com/abhisek/mutabayinat/internal/ui/theme"
)

// SummaryScreen is shown when the last stage of a section is done. It
// lists the score of every stage and offers the next section.
type SummaryScreen struct {
	section  curriculum.Section
	progress problem.Progress
	lang     problem.Lang
	next     string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for sectionID. next is the following section,
// empty after the last one.
func New(sectionID string, progress problem.Progress, lang problem.Lang, next string) *SummaryScreen {
	sec, ok := curriculum.Lookup(sectionID)
	if !ok {
		sec = curriculum.Section{ID: sectionID, Title: problem.Text{EN: sectionID}}
	}
	return &SummaryScreen{section: sec, progress: progress, lang: lang, next: next}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Section Complete"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	if s.next == "" {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Back to sections"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next section"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		pop := func() tea.Msg { return router.PopScreenMsg{} }
		if s.next == "" {
			return s, pop
		}
		next := s.next
		return s, tea.Sequence(pop, func() tea.Msg {
			return screens.OpenSectionMsg{SectionID: next}
		})
	}
	if lmsg, ok := msg.(screens.LangChangedMsg); ok {
		s.lang = lmsg.Lang
	}
	return s, nil
}

// Stats returns the completed stage count and the average score of the
// completed stages.
func (s *SummaryScreen) Stats() (completed int, average float64) {
	sp, _ := s.progress.Section(s.section.ID)
	total := 0
	for _, id := range s.section.Stages {
		if rec, ok := sp[id]; ok && rec.Completed {
			completed++
			total += rec.Score
		}
	}
	if completed > 0 {
		average = float64(total) / float64(completed)
	}
	return completed, average
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder
	center := func(style lipgloss.Style, text string) {
		b.WriteString(style.Width(width).Align(lipgloss.Center).Render(text))
		b.WriteString("\n")
	}

	center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Section complete!  ·  أحسنت!")
	center(lipgloss.NewStyle().Foreground(theme.TextDim), s.section.Title.In(s.lang))
	b.WriteString("\n")

	completed, avg := s.Stats()
	center(lipgloss.NewStyle().Foreground(theme.Text),
		fmt.Sprintf("Stages: %d/%d        Average score: %.0f", completed, len(s.section.Stages), avg))
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 50)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	sp, _ := s.progress.Section(s.section.ID)
	for _, id := range s.section.Stages {
		rec := sp[id]
		mark, style := "·", lipgloss.NewStyle().Foreground(theme.TextDim)
		if rec.Completed {
			mark, style = "✓", lipgloss.NewStyle().Foreground(theme.Success)
		}
		line := fmt.Sprintf("%s %-22s %3d   attempts %d", mark, screens.StageLabel(id, s.lang), rec.Score, rec.Attempts)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if s.next != "" {
		if nsec, ok := curriculum.Lookup(s.next); ok {
			center(theme.Hint, "Next: "+nsec.Title.In(s.lang))
		}
	} else {
		center(theme.Hint, "You finished every section.")
	}

	return b.String()
}
