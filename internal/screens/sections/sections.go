// Package sections is the home screen: the stages of one curriculum section
// with their completion and lock state.
package sections

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mutabayinat/internal/curriculum"
	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/progression"
	"github.com/abhisek/mutabayinat/internal/router"
	"github.com/abhisek/mutabayinat/internal/screen"
	"github.com/abhisek/mutabayinat/internal/screens"
	"github.com/abhisek/mutabayinat/internal/screens/solve"
	"github.com/abhisek/mutabayinat/internal/ui/components"
	"github.com/abhisek/mutabayinat/internal/ui/layout"
	"github.com/abhisek/mutabayinat/internal/ui/theme"
)

type loadedMsg struct {
	seq       int
	sectionID string
	list      []problem.Summary
	progress  problem.Progress
	listErr   error
	progErr   error
}

// SectionsScreen lists the stages of the selected section.
type SectionsScreen struct {
	deps     screens.Deps
	all      []curriculum.Section
	index    int
	list     []problem.Summary
	progress problem.Progress
	menu     components.Menu
	spin     spinner.Model
	loading  bool
	seq      int
	notice   string
	errMsg   string
}

var _ screen.Screen = (*SectionsScreen)(nil)
var _ screen.KeyHintProvider = (*SectionsScreen)(nil)
var _ screen.Resumer = (*SectionsScreen)(nil)

// New creates the screen with sectionID selected, or the first section when
// sectionID is unknown.
func New(deps screens.Deps, sectionID string) *SectionsScreen {
	s := &SectionsScreen{
		deps: deps,
		all:  curriculum.Sections(),
		spin: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	for i, sec := range s.all {
		if sec.ID == sectionID {
			s.index = i
		}
	}
	return s
}

func (s *SectionsScreen) Init() tea.Cmd {
	return tea.Batch(s.load(), s.spin.Tick)
}

// Resume reloads progress after a problem screen is closed.
func (s *SectionsScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *SectionsScreen) Title() string {
	return "Sections"
}

// SectionID returns the selected section.
func (s *SectionsScreen) SectionID() string {
	return s.all[s.index].ID
}

func (s *SectionsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Stage"},
		{Key: "←→", Description: "Section"},
		{Key: "Enter", Description: "Open"},
		{Key: "Ctrl+L", Description: "Language"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SectionsScreen) load() tea.Cmd {
	s.seq++
	s.loading = true
	seq, sectionID, deps := s.seq, s.SectionID(), s.deps
	return func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		msg := loadedMsg{seq: seq, sectionID: sectionID}
		msg.list, msg.listErr = deps.Sections.SectionProblems(ctx, sectionID)
		msg.progress, msg.progErr = deps.Controller.RefreshProgress(ctx)
		return msg
	}
}

func (s *SectionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case screens.NoticeMsg:
		s.notice = msg.Text
		return s, nil

	case screens.OpenSectionMsg:
		for i, sec := range s.all {
			if sec.ID == msg.SectionID {
				s.index = i
				s.notice = ""
				return s, tea.Batch(s.load(), s.spin.Tick)
			}
		}
		return s, nil

	case screens.LangChangedMsg:
		s.rebuildMenu()
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "left", "h", "[":
			return s, s.selectSection(s.index - 1)
		case "right", "l", "]":
			return s, s.selectSection(s.index + 1)
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SectionsScreen) selectSection(i int) tea.Cmd {
	if i < 0 || i >= len(s.all) || i == s.index {
		return nil
	}
	s.index = i
	s.notice = ""
	s.list = nil
	s.rebuildMenu()
	return tea.Batch(s.load(), s.spin.Tick)
}

func (s *SectionsScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if msg.seq != s.seq {
		return s, nil
	}
	s.loading = false
	s.errMsg = ""

	lang := s.deps.Controller.Lang()
	switch {
	case msg.listErr != nil:
		// Offline: fall back to the curriculum order so progress saved
		// locally can still be shown.
		s.list = curriculumSummaries(msg.sectionID)
		s.errMsg = fmt.Sprintf("%s (%v)", progression.UserMessage(lang, msg.listErr), msg.listErr)
	default:
		s.list = msg.list
	}
	if msg.progErr != nil && !errors.Is(msg.progErr, progression.ErrSessionClosed) {
		s.errMsg = fmt.Sprintf("%s (%v)", progression.UserMessage(lang, msg.progErr), msg.progErr)
	} else if msg.progErr == nil {
		s.progress = msg.progress
	}

	s.rebuildMenu()
	return s, nil
}

func curriculumSummaries(sectionID string) []problem.Summary {
	var out []problem.Summary
	for _, id := range curriculum.Stages(sectionID) {
		out = append(out, problem.Summary{ID: id, SectionID: sectionID})
	}
	return out
}

func (s *SectionsScreen) rebuildMenu() {
	lang := s.deps.Controller.Lang()
	sectionID := s.SectionID()
	sp, _ := s.progress.Section(sectionID)

	prev := s.menu.Selected
	items := make([]components.MenuItem, 0, len(s.list))
	for _, sum := range s.list {
		id := sum.ID
		label := screens.StageLabel(id, lang)
		if title := sum.Title.In(lang); title != "" {
			label += " · " + title
		}

		item := components.MenuItem{Label: label, Action: s.open(sectionID, id)}
		rec, done := sp[id]
		switch {
		case done && rec.Completed:
			item.Marker = "✓"
			item.Detail = fmt.Sprintf("score %d", rec.Score)
		case !s.deps.Controller.Access(sectionID, id).Allowed:
			item.Marker = "🔒"
		default:
			item.Marker = "•"
		}
		items = append(items, item)
	}
	s.menu = components.NewMenu(items)
	s.menu.Select(prev)
}

// open returns the action of a stage item: push the problem screen, or
// explain why the stage is locked.
func (s *SectionsScreen) open(sectionID, id string) func() tea.Cmd {
	return func() tea.Cmd {
		c := s.deps.Controller
		if d := c.Access(sectionID, id); !d.Allowed {
			s.notice = progression.UserMessage(c.Lang(), &progression.LockedError{ProblemID: id, Decision: d})
			return nil
		}
		s.notice = ""
		next := solve.New(s.deps, id)
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

// Completed returns how many stages of the selected section are done.
func (s *SectionsScreen) Completed() int {
	sp, _ := s.progress.Section(s.SectionID())
	n := 0
	for _, sum := range s.list {
		if sp[sum.ID].Completed {
			n++
		}
	}
	return n
}

func (s *SectionsScreen) View(width, height int) string {
	lang := s.deps.Controller.Lang()
	sec := s.all[s.index]
	inner := min(width-4, 72)

	var b strings.Builder

	tabs := make([]string, 0, len(s.all))
	for i := range s.all {
		label := fmt.Sprintf(" %d ", i+1)
		if i == s.index {
			tabs = append(tabs, theme.KeyActive.Render(label))
		} else {
			tabs = append(tabs, theme.KeyInactive.Render(label))
		}
	}
	b.WriteString("  " + strings.Join(tabs, " ") + "\n\n")

	b.WriteString(layout.Paragraph(sec.Title.In(lang), lang, inner, theme.Title))
	b.WriteString("\n")
	b.WriteString("  " + components.NewProgressBar("", s.Completed(), len(s.list), inner-2).View())
	b.WriteString("\n\n")

	if s.loading && len(s.list) == 0 {
		b.WriteString("  " + s.spin.View() + " Loading...\n")
	} else {
		b.WriteString(s.menu.View())
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(layout.Paragraph(s.notice, lang, inner, theme.Notice))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(layout.Paragraph(s.errMsg, lang, inner, theme.Incorrect))
		b.WriteString("\n")
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
