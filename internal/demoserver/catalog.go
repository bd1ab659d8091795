package demoserver

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/abhisek/mutabayinat/internal/curriculum"
	"github.com/abhisek/mutabayinat/internal/problem"
)

//go:embed catalog.json
var catalogJSON []byte

// Catalog is a read-only set of problems.
type Catalog struct {
	problems map[string]problem.Problem
	order    []string
}

type catalogFile struct {
	Problems []problem.Problem `json:"problems"`
}

// DefaultCatalog returns the built-in catalog covering every curriculum
// section.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogJSON)
}

// ParseCatalog decodes a catalog document. Problems without a section id
// get the one their id implies.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{problems: make(map[string]problem.Problem, len(f.Problems))}
	for _, p := range f.Problems {
		if p.ID == "" {
			return nil, fmt.Errorf("parse catalog: problem without id")
		}
		if _, dup := c.problems[p.ID]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate problem %q", p.ID)
		}
		if p.SectionID == "" {
			sec, ok := curriculum.SectionOf(p.ID)
			if !ok {
				return nil, fmt.Errorf("parse catalog: problem %q has no section", p.ID)
			}
			p.SectionID = sec
		}
		c.problems[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c, nil
}

// Problem returns the problem with the given id.
func (c *Catalog) Problem(id string) (problem.Problem, bool) {
	p, ok := c.problems[id]
	return p, ok
}

// Section lists the problems of a section: curriculum stages first, then
// any other problems of the section in catalog order.
func (c *Catalog) Section(sectionID string) []problem.Summary {
	var out []problem.Summary
	seen := make(map[string]bool)
	add := func(p problem.Problem) {
		seen[p.ID] = true
		out = append(out, problem.Summary{
			ID:        p.ID,
			SectionID: p.SectionID,
			Type:      p.Type,
			Title:     p.Title,
			Weight:    p.Weight,
		})
	}

	for _, id := range curriculum.Stages(sectionID) {
		if p, ok := c.problems[id]; ok {
			add(p)
		}
	}
	for _, id := range c.order {
		p := c.problems[id]
		if p.SectionID == sectionID && !seen[id] {
			add(p)
		}
	}
	return out
}
