package tutor

import "github.com/abhisek/pymaster/internal/llm"

// ReviewSchema is the structured output requested from the model.
var ReviewSchema = &llm.Schema{
	Name:        "code-review",
	Description: "Feedback on a learner's attempt at a Python exercise",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verdict": map[string]any{
				"type": "string",
				"enum": []any{string(VerdictSolved), string(VerdictPartial), string(VerdictNotYet)},
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "2-4 sentences on what the code does well and what is wrong",
			},
			"next_step": map[string]any{
				"type":        "string",
				"description": "One concrete thing to try next, without giving the answer",
			},
		},
		"required":             []any{"verdict", "feedback", "next_step"},
		"additionalProperties": false,
	},
}
