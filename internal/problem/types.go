package problem

import "strings"

// Lang is a UI language.
type Lang string

const (
	LangEN Lang = "en"
	LangAR Lang = "ar"
)

// ParseLang maps a user-supplied language code to a Lang, defaulting to English.
func ParseLang(s string) Lang {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ar", "ara", "arabic":
		return LangAR
	default:
		return LangEN
	}
}

// Other returns the opposite language.
func (l Lang) Other() Lang {
	if l == LangAR {
		return LangEN
	}
	return LangAR
}

// Text holds a string in both languages.
type Text struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// In returns the text in lang, falling back to the other language when empty.
func (t Text) In(lang Lang) string {
	primary, fallback := t.EN, t.AR
	if lang == LangAR {
		primary, fallback = t.AR, t.EN
	}
	if primary != "" {
		return primary
	}
	return fallback
}

// Answers holds per-language acceptable answers for a step.
type Answers struct {
	EN []string `json:"en"`
	AR []string `json:"ar"`
}

// In returns the answers for lang, falling back to the other language when
// lang has none.
func (a Answers) In(lang Lang) []string {
	primary, fallback := a.EN, a.AR
	if lang == LangAR {
		primary, fallback = a.AR, a.EN
	}
	if len(primary) > 0 {
		return primary
	}
	return fallback
}

// All returns answers from both languages.
func (a Answers) All() []string {
	out := make([]string, 0, len(a.EN)+len(a.AR))
	out = append(out, a.EN...)
	return append(out, a.AR...)
}

// StepType tags a step as intermediate work or the final answer.
type StepType string

const (
	StepIntermediate StepType = "intermediate"
	StepFinalAnswer  StepType = "final_answer"
)

// Step is one entry of a problem's step-by-step solution.
type Step struct {
	Instruction Text     `json:"instruction"`
	Answers     Answers  `json:"answers"`
	Type        StepType `json:"step_type"`
}

// IsFinal reports whether this step asks for the final answer.
func (s Step) IsFinal() bool {
	return s.Type == StepFinalAnswer
}

// WorkedExample is a teaching example inside an Explanation problem. Each
// example carries its own two-step check.
type WorkedExample struct {
	Title          Text     `json:"title"`
	Body           Text     `json:"body"`
	Step1Prompt    Text     `json:"step1_prompt"`
	Step1Answers   []string `json:"step1_answers"`
	Step2Prompt    Text     `json:"step2_prompt"`
	PracticeAnswer string   `json:"practice_answer"`
}

// Problem is a single exercise as served by the backend catalog. It is
// treated as immutable for the duration of a session.
type Problem struct {
	ID                  string          `json:"id"`
	SectionID           string          `json:"section_id"`
	Type                string          `json:"type,omitempty"`
	Title               Text            `json:"title"`
	Question            Text            `json:"question"`
	Answer              string          `json:"answer"`
	Steps               []Step          `json:"step_solutions"`
	Hints               []Text          `json:"hints"`
	FinalAnswerRequired bool            `json:"final_answer_required"`
	Weight              int             `json:"weight"`
	Examples            []WorkedExample `json:"examples,omitempty"`
}

// Hint returns the hint at index i in lang, or "" when out of range.
func (p *Problem) Hint(i int, lang Lang) string {
	if i < 0 || i >= len(p.Hints) {
		return ""
	}
	return p.Hints[i].In(lang)
}

// LastStep returns the index of the last step, or -1 when the problem has none.
func (p *Problem) LastStep() int {
	return len(p.Steps) - 1
}

// Summary is the short form returned by the section listing.
type Summary struct {
	ID        string `json:"id"`
	SectionID string `json:"section_id"`
	Type      string `json:"type,omitempty"`
	Title     Text   `json:"title"`
	Weight    int    `json:"weight"`
}

// Attempt is the body of an attempt submission. Answer is the student's
// own input, never the canonical answer.
type Attempt struct {
	ProblemID string `json:"problem_id"`
	Answer    string `json:"answer"`
	HintsUsed int    `json:"hints_used"`

	// Score is the running score of a scored stage. Zero lets the backend
	// score the attempt itself.
	Score int `json:"score,omitempty"`
}

// AttemptResult is the backend's reply to an attempt submission.
type AttemptResult struct {
	Attempts int `json:"attempts"`
	Score    int `json:"score"`
}

// Student identifies a logged-in student.
type Student struct {
	Username    string `json:"username"`
	ClassName   string `json:"class_name"`
	DisplayName string `json:"display_name"`
}
