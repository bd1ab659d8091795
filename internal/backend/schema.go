package backend

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const problemSchemaURL = "schema://problem.json"

// problemSchema describes the problem detail payload. Fields the engine
// relies on are typed strictly; unknown fields are allowed.
const problemSchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {
		"id":         {"type": "string", "minLength": 1},
		"section_id": {"type": "string"},
		"type":       {"type": "string"},
		"title":      {"$ref": "#/$defs/text"},
		"question":   {"$ref": "#/$defs/text"},
		"answer":     {"type": "string"},
		"weight":     {"type": "number", "minimum": 0, "maximum": 100},
		"final_answer_required": {"type": "boolean"},
		"hints": {
			"type": "array",
			"items": {"$ref": "#/$defs/text"}
		},
		"step_solutions": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"instruction": {"$ref": "#/$defs/text"},
					"answers": {
						"type": "object",
						"properties": {
							"en": {"type": ["array", "null"], "items": {"type": "string"}},
							"ar": {"type": ["array", "null"], "items": {"type": "string"}}
						}
					},
					"step_type": {"enum": ["intermediate", "final_answer", ""]}
				}
			}
		},
		"examples": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["step1_answers", "practice_answer"],
				"properties": {
					"step1_answers":   {"type": "array", "minItems": 1, "items": {"type": "string"}},
					"practice_answer": {"type": "string", "minLength": 1}
				}
			}
		}
	},
	"$defs": {
		"text": {
			"type": "object",
			"properties": {
				"en": {"type": "string"},
				"ar": {"type": "string"}
			}
		}
	}
}`

var (
	compileOnce     sync.Once
	compiledProblem *jsonschema.Schema
	compileErr      error
)

// validateProblem checks a raw problem payload against problemSchema.
func validateProblem(raw []byte) error {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(problemSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse problem schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(problemSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledProblem, compileErr = c.Compile(problemSchemaURL)
	})
	if compileErr != nil {
		return compileErr
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledProblem.Validate(parsed); err != nil {
		return fmt.Errorf("problem payload: %w", err)
	}
	return nil
}
