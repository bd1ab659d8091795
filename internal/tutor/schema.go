package tutor

import "github.com/abhisek/mutabayinat/internal/llm"

// ExplanationSchema is the JSON shape the model must return.
var ExplanationSchema = &llm.Schema{
	Name:        "inequality-mistake-explanation",
	Description: "A short explanation of a student's mistake on an inequality problem",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "One or two sentences naming what went wrong, addressed to the student",
			},
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "The solution as short numbered steps, without giving away more than needed",
			},
			"encouragement": map[string]any{
				"type":        "string",
				"description": "One short encouraging sentence",
			},
		},
		"required":             []any{"summary", "steps", "encouragement"},
		"additionalProperties": false,
	},
}
