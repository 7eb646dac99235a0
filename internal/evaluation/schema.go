package evaluation

import "github.com/abhisek/engpractice/internal/llm"

// rubricSchema is the minimal shape every rubric must have. Other fields
// pass through unchecked.
var rubricSchema = &llm.Schema{
	Name:        "evaluation-rubric",
	Description: "An evaluation rubric with a numeric overall score",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{"type": "number"},
		},
		"required": []any{"score"},
	},
}
