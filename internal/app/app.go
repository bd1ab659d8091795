package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mutabayinat/internal/router"
	"github.com/abhisek/mutabayinat/internal/screen"
	"github.com/abhisek/mutabayinat/internal/screens"
	"github.com/abhisek/mutabayinat/internal/screens/login"
	"github.com/abhisek/mutabayinat/internal/screens/sections"
	"github.com/abhisek/mutabayinat/internal/screens/solve"
	"github.com/abhisek/mutabayinat/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Deps screens.Deps

	// SectionID is the section selected when the section list opens,
	// usually the one the student last worked on.
	SectionID string

	// Username pre-fills the login form.
	Username string

	// OpenProblem, when set, opens that problem on top of the section list.
	// It is ignored until a student is signed in.
	OpenProblem string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   screens.Deps
	router *router.Router
	open   string
	width  int
	height int
}

// newAppModel starts on the section list when a student is signed in and on
// the login form otherwise.
func newAppModel(opts Options) AppModel {
	deps := opts.Deps
	home := func() screen.Screen { return sections.New(deps, opts.SectionID) }

	var initial screen.Screen
	open := ""
	if deps.Controller.User() == "" {
		initial = login.New(deps, opts.Username, home)
	} else {
		initial = home()
		open = opts.OpenProblem
	}
	return AppModel{
		deps:   deps,
		router: router.New(initial),
		open:   open,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.open == "" {
		return cmd
	}
	next := solve.New(m.deps, m.open)
	return tea.Batch(cmd, func() tea.Msg { return router.PushScreenMsg{Screen: next} })
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			c := m.deps.Controller
			lang := c.Lang().Other()
			c.SetLang(context.Background(), lang)
			return m, m.router.Update(screens.LangChangedMsg{Lang: lang})
		case "esc":
			if ec, ok := m.router.Active().(screen.EscapeConsumer); ok && ec.ConsumesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	c := m.deps.Controller
	header := layout.RenderHeader(title, c.User(), c.Lang(), m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+L", Description: "Language"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
