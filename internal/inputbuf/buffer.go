// Package inputbuf holds the text buffers fed by typing, the virtual math
// keyboard and voice transcription.
package inputbuf

// Slot identifies one buffer. Non-negative slots are step indices; the
// explanation sub-steps use their own reserved slots.
type Slot int

const (
	// DefaultSlot is the single buffer of a stage without steps.
	DefaultSlot Slot = 0

	ExplanationStep1 Slot = -1
	ExplanationStep2 Slot = -2
)

// ExplanationSlot maps a 0-based explanation sub-step to its slot.
func ExplanationSlot(subStep int) Slot {
	if subStep <= 0 {
		return ExplanationStep1
	}
	return ExplanationStep2
}

// Source is the input panel currently shown next to the text field.
type Source int

const (
	SourceNone Source = iota
	SourceKeyboard
	SourceVoice
)

func (s Source) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceVoice:
		return "voice"
	default:
		return "none"
	}
}

// Buffer is a set of per-slot text buffers with a single active slot and a
// single open input panel. The zero value is not usable; call New.
type Buffer struct {
	slots  map[Slot]string
	active Slot
	panel  Source

	explanation bool
	subStep     int
}

// New returns an empty buffer focused on DefaultSlot.
func New() *Buffer {
	return &Buffer{slots: make(map[Slot]string)}
}

// Insert appends text to slot.
func (b *Buffer) Insert(slot Slot, text string) {
	b.slots[slot] += text
}

// SetDirect replaces slot with typed text.
func (b *Buffer) SetDirect(slot Slot, text string) {
	b.slots[slot] = text
}

// SetFromVoice replaces slot with a transcription result.
func (b *Buffer) SetFromVoice(slot Slot, text string) {
	b.slots[slot] = text
}

// Clear empties slot.
func (b *Buffer) Clear(slot Slot) {
	delete(b.slots, slot)
}

// Backspace removes the last character of slot. Multi-byte characters
// such as Arabic digits are removed whole.
func (b *Buffer) Backspace(slot Slot) {
	r := []rune(b.slots[slot])
	if len(r) == 0 {
		return
	}
	b.slots[slot] = string(r[:len(r)-1])
}

// Get returns the contents of slot.
func (b *Buffer) Get(slot Slot) string {
	return b.slots[slot]
}

// Focus makes slot the active slot.
func (b *Buffer) Focus(slot Slot) {
	b.active = slot
}

// Active returns the active slot.
func (b *Buffer) Active() Slot {
	return b.active
}

// SetExplanation switches explanation mode on or off. In explanation mode
// producers write to the slot of the current explanation sub-step.
func (b *Buffer) SetExplanation(on bool) {
	b.explanation = on
}

// SetExplanationStep selects the explanation sub-step (0 or 1).
func (b *Buffer) SetExplanationStep(subStep int) {
	b.subStep = subStep
}

// Target returns the slot that typing, keyboard and voice write to.
func (b *Buffer) Target() Slot {
	if b.explanation {
		return ExplanationSlot(b.subStep)
	}
	return b.active
}

// Current returns the contents of the target slot.
func (b *Buffer) Current() string {
	return b.slots[b.Target()]
}

// ResetExplanation empties both explanation slots and returns to sub-step 0.
func (b *Buffer) ResetExplanation() {
	delete(b.slots, ExplanationStep1)
	delete(b.slots, ExplanationStep2)
	b.subStep = 0
}

// Panel returns the open input panel.
func (b *Buffer) Panel() Source {
	return b.panel
}

// OpenPanel shows src, closing any other panel.
func (b *Buffer) OpenPanel(src Source) {
	b.panel = src
}

// TogglePanel opens src, or closes it if it is already open.
func (b *Buffer) TogglePanel(src Source) {
	if b.panel == src {
		b.panel = SourceNone
		return
	}
	b.panel = src
}

// ClosePanel hides whichever panel is open.
func (b *Buffer) ClosePanel() {
	b.panel = SourceNone
}

// Reset empties every slot, refocuses DefaultSlot, closes the panel and
// leaves explanation mode.
func (b *Buffer) Reset() {
	clear(b.slots)
	b.active = DefaultSlot
	b.panel = SourceNone
	b.explanation = false
	b.subStep = 0
}

// Clone returns an independent copy.
func (b *Buffer) Clone() *Buffer {
	cp := *b
	cp.slots = make(map[Slot]string, len(b.slots))
	for k, v := range b.slots {
		cp.slots[k] = v
	}
	return &cp
}
