package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/ui/theme"
)

// KeyAction is what pressing a keypad key does to the answer.
type KeyAction int

const (
	KeyInsert KeyAction = iota
	KeyBackspace
	KeyClear
)

// KeypadMsg is emitted when a keypad key is pressed.
type KeypadMsg struct {
	Action KeyAction
	Text   string
}

type padKey struct {
	label  string
	action KeyAction
	text   string
}

func insert(s string) padKey { return padKey{label: s, action: KeyInsert, text: s} }

// Keypad is the on-screen math keyboard. Digits and the variable follow the
// active language; the answer normalizer treats both scripts alike.
type Keypad struct {
	rows [][]padKey
	row  int
	col  int
}

// NewKeypad builds the keypad for lang.
func NewKeypad(lang problem.Lang) Keypad {
	variable, digits := "x", "0123456789"
	if lang == problem.LangAR {
		variable, digits = "س", "٠١٢٣٤٥٦٧٨٩"
	}

	var digitRow []padKey
	for _, d := range digits {
		digitRow = append(digitRow, insert(string(d)))
	}

	return Keypad{rows: [][]padKey{
		{
			insert(variable), insert("<"), insert(">"), insert("≤"), insert("≥"),
			insert("="), insert("-"), insert("+"),
			{label: "⌫", action: KeyBackspace},
			{label: "C", action: KeyClear},
		},
		digitRow,
		{insert("×"), insert("÷"), insert("("), insert(")"), insert("."), {label: "␣", action: KeyInsert, text: " "}},
	}}
}

// Focused returns the label of the key under the cursor.
func (k Keypad) Focused() string {
	if len(k.rows) == 0 {
		return ""
	}
	return k.rows[k.row][k.col].label
}

// Update moves the cursor with the arrow keys and presses the focused key
// on enter or space.
func (k Keypad) Update(msg tea.Msg) (Keypad, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(k.rows) == 0 {
		return k, nil
	}

	switch kmsg.String() {
	case "left":
		n := len(k.rows[k.row])
		k.col = (k.col - 1 + n) % n
	case "right":
		k.col = (k.col + 1) % len(k.rows[k.row])
	case "up":
		if k.row > 0 {
			k.row--
			k.col = min(k.col, len(k.rows[k.row])-1)
		}
	case "down":
		if k.row < len(k.rows)-1 {
			k.row++
			k.col = min(k.col, len(k.rows[k.row])-1)
		}
	case "enter", "space":
		key := k.rows[k.row][k.col]
		return k, func() tea.Msg { return KeypadMsg{Action: key.action, Text: key.text} }
	}
	return k, nil
}

// View renders the keypad rows.
func (k Keypad) View() string {
	lines := make([]string, 0, len(k.rows))
	for r, row := range k.rows {
		cells := make([]string, 0, len(row))
		for c, key := range row {
			if r == k.row && c == k.col {
				cells = append(cells, theme.KeyActive.Render(key.label))
			} else {
				cells = append(cells, theme.KeyInactive.Render(key.label))
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n\n")
}
