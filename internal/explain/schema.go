package explain

import "github.com/abhisek/mathgalaxy/internal/llm"

// ExplanationSchema defines the JSON schema for a full topic explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "topic-explanation",
	Description: "An explanation of a math topic with key points and worked examples",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Clear explanation of the topic (3-6 sentences)",
			},
			"key_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-5 short key points",
			},
			"examples": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 short worked examples",
			},
		},
		"required":             []any{"explanation", "key_points", "examples"},
		"additionalProperties": false,
	},
}
