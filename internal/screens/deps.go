// Package screens holds what the individual TUI screens share: their
// dependencies and the messages they send each other.
package screens

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/mutabayinat/internal/problem"
	"github.com/abhisek/mutabayinat/internal/progression"
	"github.com/abhisek/mutabayinat/internal/voice"
)

// SectionLister lists the problems of a section.
type SectionLister interface {
	SectionProblems(ctx context.Context, sectionID string) ([]problem.Summary, error)
}

// Authenticator logs a student in.
type Authenticator interface {
	Login(ctx context.Context, username, className string) (*problem.Student, error)
}

// Deps are the services the screens run their commands against.
type Deps struct {
	Controller *progression.Controller
	Sections   SectionLister
	Auth       Authenticator
	Voice      voice.Recognizer

	// CallTimeout bounds each backend call made from a screen.
	CallTimeout time.Duration
}

// DefaultCallTimeout is used when Deps.CallTimeout is zero.
const DefaultCallTimeout = 20 * time.Second

// Context returns a context for one backend call.
func (d Deps) Context() (context.Context, context.CancelFunc) {
	t := d.CallTimeout
	if t <= 0 {
		t = DefaultCallTimeout
	}
	return context.WithTimeout(context.Background(), t)
}

// NoticeMsg asks the screen that receives it to show Text.
type NoticeMsg struct {
	Text string
}

// LangChangedMsg is broadcast after the student switches language.
type LangChangedMsg struct {
	Lang problem.Lang
}

// OpenSectionMsg selects a section in the section list.
type OpenSectionMsg struct {
	SectionID string
}

var stageLabels = map[string]problem.Text{
	"prep":        {EN: "Preparation", AR: "التهيئة"},
	"explanation": {EN: "Explanation", AR: "الشرح"},
	"practice1":   {EN: "Practice 1", AR: "تدريب ١"},
	"practice2":   {EN: "Practice 2", AR: "تدريب ٢"},
	"assessment":  {EN: "Assessment", AR: "التقويم"},
	"examprep":    {EN: "Exam prep", AR: "الاستعداد للاختبار"},
}

// StageLabel names the stage of a curriculum problem id such as
// "s1_practice2". Unknown ids are returned unchanged.
func StageLabel(problemID string, lang problem.Lang) string {
	_, suffix, ok := strings.Cut(problemID, "_")
	if !ok {
		return problemID
	}
	if t, ok := stageLabels[suffix]; ok {
		return t.In(lang)
	}
	return problemID
}
