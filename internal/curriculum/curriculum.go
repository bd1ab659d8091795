// Package curriculum holds the statically known ordering of sections and
// their stages. Navigation and prerequisite checks walk this ordering
// rather than trusting whatever the backend happens to list.
package curriculum

import (
	"strings"

	"github.com/abhisek/mutabayinat/internal/problem"
)

// Section is an ordered group of stages covering one topic.
type Section struct {
	ID     string
	Title  problem.Text
	Stages []string
}

// stageSuffixes is the fixed stage order inside every section.
var stageSuffixes = []string{
	"prep",
	"explanation",
	"practice1",
	"practice2",
	"assessment",
	"examprep",
}

var sections = []Section{
	newSection("s1", problem.Text{
		EN: "One-step inequalities: adding and subtracting",
		AR: "متباينات بخطوة واحدة: الجمع والطرح",
	}),
	newSection("s2", problem.Text{
		EN: "One-step inequalities: multiplying and dividing",
		AR: "متباينات بخطوة واحدة: الضرب والقسمة",
	}),
	newSection("s3", problem.Text{
		EN: "Two-step inequalities",
		AR: "متباينات بخطوتين",
	}),
}

func newSection(id string, title problem.Text) Section {
	stages := make([]string, len(stageSuffixes))
	for i, s := range stageSuffixes {
		stages[i] = id + "_" + s
	}
	return Section{ID: id, Title: title, Stages: stages}
}

// Sections returns all sections in curriculum order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Lookup returns the section with the given id.
func Lookup(sectionID string) (Section, bool) {
	for _, s := range sections {
		if s.ID == sectionID {
			return s, true
		}
	}
	return Section{}, false
}

// Stages returns the ordered stage ids of a section, or nil if unknown.
func Stages(sectionID string) []string {
	s, ok := Lookup(sectionID)
	if !ok {
		return nil
	}
	out := make([]string, len(s.Stages))
	copy(out, s.Stages)
	return out
}

// SectionOf derives the section id from a stage id ("s2_practice1" → "s2").
func SectionOf(problemID string) (string, bool) {
	for _, s := range sections {
		if strings.HasPrefix(problemID, s.ID+"_") {
			return s.ID, true
		}
	}
	return "", false
}

// Next returns the stage after problemID in its section. ok is false when
// problemID is the last stage (the section is complete) or is unknown.
func Next(sectionID, problemID string) (next string, ok bool) {
	stages := Stages(sectionID)
	for i, id := range stages {
		if id == problemID && i+1 < len(stages) {
			return stages[i+1], true
		}
	}
	return "", false
}

// NextSection returns the section following sectionID.
func NextSection(sectionID string) (string, bool) {
	for i, s := range sections {
		if s.ID == sectionID && i+1 < len(sections) {
			return sections[i+1].ID, true
		}
	}
	return "", false
}

// Catalog exposes the ordering to consumers that only need stage ids.
type Catalog struct{}

// Stages implements access.StageLister.
func (Catalog) Stages(sectionID string) []string {
	return Stages(sectionID)
}
