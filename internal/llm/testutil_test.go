package llm

var reviewSchema = &Schema{
	Name: "test-review",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verdict":  map[string]any{"type": "string", "enum": []string{"pass", "fail"}},
			"feedback": map[string]any{"type": "string"},
		},
		"required":             []string{"verdict", "feedback"},
		"additionalProperties": false,
	},
}
