package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalAnswerSet(t *testing.T) {
	tests := []struct {
		canonical string
		want      []string
	}{
		{"7", []string{"7", "x=7"}},
		{"x = 7", []string{"x=7", "7"}},
		{"x≥3", []string{"x≥3"}},
		{"س < ٤", []string{"x<4"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FinalAnswerSet(tt.canonical), "canonical %q", tt.canonical)
	}
}

func TestCheckFinal(t *testing.T) {
	tests := []struct {
		input     string
		canonical string
		want      bool
	}{
		{"7", "7", true},
		{"x=7", "7", true},
		{"7", "x=7", true},
		{"٧", "x = 7", true},
		{"x ≥ 3", "x≥3", true},
		{"س ≥ ٣", "x≥3", true},
		{"x >= 3", "x≥3", true},
		{"x > 3", "x≥3", false},
		{"3", "x≥3", false},
		{"", "7", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckFinal(tt.input, tt.canonical), "input %q vs %q", tt.input, tt.canonical)
	}
}

func TestStepAnswerSet(t *testing.T) {
	set := StepAnswerSet([]string{"2x = 10", "2x=10", "١٠ = ٢س"})
	assert.Equal(t, []string{"2x=10", "10=2x"}, set)
	assert.False(t, AnyComparison(set))
	assert.True(t, AnyComparison(StepAnswerSet([]string{"x ≤ 5"})))
}

func TestMatches_EmptyNeverMatches(t *testing.T) {
	assert.False(t, Matches("", []string{""}))
}
