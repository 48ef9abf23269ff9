package quizgen

import "stackmaster-quiz-service/internal/llm"

// QuizSchema defines the JSON schema for generated question sets.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A set of multiple-choice quiz questions for one difficulty level",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"description": "Unique question number, starting at 1",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the user",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    4,
							"maxItems":    4,
							"description": "Exactly 4 answer options",
						},
						"correctAnswer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "Zero-based index of the correct option",
						},
					},
					"required":             []any{"id", "question", "options", "correctAnswer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// EvaluationSchema defines the JSON schema for content-appropriateness
// evaluations.
var EvaluationSchema = &llm.Schema{
	Name:        "content-evaluation",
	Description: "Whether quiz content suits a student's learning history",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"isAppropriate": map[string]any{
				"type":        "boolean",
				"description": "Whether the quiz content is appropriate for the student",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the content is or is not appropriate",
			},
		},
		"required":             []any{"isAppropriate", "explanation"},
		"additionalProperties": false,
	},
}
