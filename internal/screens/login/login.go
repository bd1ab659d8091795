package login

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/router"
	"github.com/abhisek/mutabayinat/internal/screen"
	"github.com/abhisek/mutabayinat/internal/screens"
	"github.com/abhisek/mutabayinat/internal/ui/components"
	"github.com/abhisek/mutabayinat/internal/ui/layout"
	"github.com/abhisek/mutabayinat/internal/ui/theme"
)

const (
	fieldUsername = iota
	fieldClass
)

type loginDoneMsg struct {
	student *problem.Student
	err     error
}

// LoginScreen asks for the student's username and class, logs in against
// the backend, then replaces itself with the screen built by next.
type LoginScreen struct {
	deps   screens.Deps
	next   func() screen.Screen
	fields []components.TextInput
	focus  int
	busy   bool
	errMsg string
	done   bool
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen. username pre-fills the first field.
func New(deps screens.Deps, username string, next func() screen.Screen) *LoginScreen {
	user := components.NewTextInput("Username / اسم المستخدم", "amal", 32)
	user.SetValue(username)
	class := components.NewTextInput("Class / الصف", "7B", 16)

	s := &LoginScreen{
		deps:   deps,
		next:   next,
		fields: []components.TextInput{user, class},
	}
	if username != "" {
		s.focus = fieldClass
	}
	return s
}

func (s *LoginScreen) Title() string {
	return "Login"
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.fields[s.focus].Focus()
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Log in"},
		{Key: "Ctrl+L", Description: "Language"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		return s.handleLogin(msg)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % len(s.fields))
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + len(s.fields) - 1) % len(s.fields))
		case "enter":
			if s.focus == fieldUsername && s.fields[fieldClass].Value() == "" {
				return s, s.setFocus(fieldClass)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *LoginScreen) setFocus(i int) tea.Cmd {
	s.fields[s.focus].Blur()
	s.focus = i
	return s.fields[s.focus].Focus()
}

func (s *LoginScreen) submit() tea.Cmd {
	if s.busy || s.done {
		return nil
	}
	username := s.fields[fieldUsername].Value()
	class := s.fields[fieldClass].Value()
	if username == "" || class == "" {
		s.errMsg = "Enter your username and class."
		return nil
	}

	s.busy = true
	s.errMsg = ""
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		st, err := deps.Auth.Login(ctx, username, class)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		if err := deps.Controller.SignIn(ctx, st.Username); err != nil {
			return loginDoneMsg{err: err}
		}
		return loginDoneMsg{student: st}
	}
}

func (s *LoginScreen) handleLogin(msg loginDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.err != nil {
		s.errMsg = fmt.Sprintf("Could not log in: %v", msg.err)
		return s, nil
	}
	if s.done {
		return s, nil
	}
	s.done = true
	next := s.next()
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *LoginScreen) View(width, height int) string {
	parts := []string{RenderBanner(width), ""}

	for _, f := range s.fields {
		parts = append(parts, f.View(), "")
	}

	switch {
	case s.busy:
		parts = append(parts, theme.Hint.Render("Logging in..."))
	case s.errMsg != "":
		parts = append(parts, theme.Incorrect.Render(s.errMsg))
	default:
		parts = append(parts, theme.Hint.Render("Ask your teacher for your username and class."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}
