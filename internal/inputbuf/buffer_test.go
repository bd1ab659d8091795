package inputbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_ProducersShareTargetSlot(t *testing.T) {
	b := New()
	b.Focus(1)

	b.SetDirect(b.Target(), "x")
	b.Insert(b.Target(), "≥")
	b.Insert(b.Target(), "3")
	assert.Equal(t, "x≥3", b.Get(1))
	assert.Equal(t, "", b.Get(DefaultSlot))

	b.SetFromVoice(b.Target(), "x is 4")
	assert.Equal(t, "x is 4", b.Current())
}

func TestBuffer_BackspaceIsRuneSafe(t *testing.T) {
	b := New()
	b.Insert(DefaultSlot, "س≥٣")

	b.Backspace(DefaultSlot)
	assert.Equal(t, "س≥", b.Get(DefaultSlot))
	b.Backspace(DefaultSlot)
	b.Backspace(DefaultSlot)
	assert.Equal(t, "", b.Get(DefaultSlot))

	// No-op on empty.
	b.Backspace(DefaultSlot)
	assert.Equal(t, "", b.Get(DefaultSlot))
}

func TestBuffer_Clear(t *testing.T) {
	b := New()
	b.Insert(2, "12")
	b.Clear(2)
	assert.Equal(t, "", b.Get(2))
}

func TestBuffer_ExplanationTargetsOwnSlots(t *testing.T) {
	b := New()
	b.Focus(3)
	b.SetExplanation(true)

	assert.Equal(t, ExplanationStep1, b.Target())
	b.Insert(b.Target(), "x>9-4")

	b.SetExplanationStep(1)
	assert.Equal(t, ExplanationStep2, b.Target())
	b.Insert(b.Target(), "x>5")

	assert.Equal(t, "x>9-4", b.Get(ExplanationStep1))
	assert.Equal(t, "x>5", b.Get(ExplanationStep2))
	assert.Equal(t, "", b.Get(3))

	b.ResetExplanation()
	assert.Equal(t, "", b.Get(ExplanationStep1))
	assert.Equal(t, "", b.Get(ExplanationStep2))
	assert.Equal(t, ExplanationStep1, b.Target())

	b.SetExplanation(false)
	assert.Equal(t, Slot(3), b.Target())
}

func TestBuffer_PanelsAreExclusive(t *testing.T) {
	b := New()
	assert.Equal(t, SourceNone, b.Panel())

	b.OpenPanel(SourceKeyboard)
	assert.Equal(t, SourceKeyboard, b.Panel())

	b.OpenPanel(SourceVoice)
	assert.Equal(t, SourceVoice, b.Panel())

	b.TogglePanel(SourceKeyboard)
	assert.Equal(t, SourceKeyboard, b.Panel())

	b.TogglePanel(SourceKeyboard)
	assert.Equal(t, SourceNone, b.Panel())

	b.OpenPanel(SourceVoice)
	b.ClosePanel()
	assert.Equal(t, SourceNone, b.Panel())
}

func TestBuffer_ResetAndClone(t *testing.T) {
	b := New()
	b.Focus(2)
	b.Insert(2, "x")
	b.OpenPanel(SourceVoice)
	b.SetExplanation(true)

	cp := b.Clone()
	b.Reset()

	assert.Equal(t, "", b.Get(2))
	assert.Equal(t, DefaultSlot, b.Target())
	assert.Equal(t, SourceNone, b.Panel())

	assert.Equal(t, "x", cp.Get(2))
	assert.Equal(t, SourceVoice, cp.Panel())
}
