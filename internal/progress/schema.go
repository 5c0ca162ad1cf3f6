package progress

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/mathgalaxy/internal/schemacheck"
)

// recordSchema is the JSON Schema a persisted record must satisfy before it
// is trusted.
var recordSchema = map[string]any{
	"type":     "object",
	"required": []string{"capturedTopics", "unlockedTopics", "quizAttempts", "quizScores"},
	"properties": map[string]any{
		"capturedTopics": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"unlockedTopics": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"quizAttempts": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":    "integer",
				"minimum": 0,
			},
		},
		"quizScores": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 100,
			},
		},
		"lastActivity":   map[string]any{"type": "integer"},
		"completionRate": map[string]any{"type": "number"},
	},
}

// decodeRecord parses and validates a persisted document.
func decodeRecord(raw []byte) (Record, error) {
	if err := schemacheck.Validate("progress-record", recordSchema, raw); err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
