package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mutabayinat/internal/ui/layout"
)

// Screen is one page of the tutor: login, section list, problem, summary.
type Screen interface {
	// Init returns the command that loads the screen's data.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area only. Header and footer belong to the app.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is implemented by screens that reload when a screen pushed on top
// of them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// Closer is implemented by screens that release resources when they leave
// the stack, by pop or by replace.
type Closer interface {
	Close()
}

// EscapeConsumer is implemented by screens that sometimes handle esc
// themselves, e.g. to close a panel, instead of going back.
type EscapeConsumer interface {
	ConsumesEscape() bool
}
