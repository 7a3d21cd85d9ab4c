package sourcer

import "github.com/tutiful/papergen/internal/llm"

// questionSchema is the structured output contract for generated
// questions. Providers that honor schemas return exactly this shape;
// for the rest, parsePayload tolerates drift.
var questionSchema = &llm.Schema{
	Name:        "practice-question",
	Description: "A single Primary 6 mathematics practice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The full question text",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exactly 4 answer options for MCQ, empty for open-ended",
			},
			"correct_answer_index": map[string]any{
				"type":        "integer",
				"description": "0-based index of the correct option, -1 for open-ended",
			},
			"correct_answer_text": map[string]any{
				"type":        "string",
				"description": "The correct answer",
			},
			"question_type": map[string]any{
				"type": "string",
				"enum": []string{"MCQ", "Open-ended"},
			},
			"marks": map[string]any{
				"type":        "integer",
				"description": "1 for MCQ, 2 to 5 for open-ended",
			},
		},
		"required": []string{"question", "correct_answer_text", "question_type"},
	},
}
