package evaluate

import "github.com/pioneer-academy/nmotrain/internal/llm"

// verdictSchema is the structured-output contract for an evaluation call.
// should_advance is optional: some graders only report correctness, and a
// missing value defaults to is_correct.
var verdictSchema = &llm.Schema{
	Name:        "answer-verdict",
	Description: "Judgment of a trainee's free-text answer against the question's acceptance criteria",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer satisfies the acceptance criteria",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Short, encouraging feedback addressed to the trainee. Point at what is missing without giving the answer away.",
			},
			"should_advance": map[string]any{
				"type":        "boolean",
				"description": "Whether the trainee may move on regardless of correctness, e.g. after repeated good-faith attempts",
			},
		},
		"required":             []any{"is_correct", "feedback"},
		"additionalProperties": false,
	},
}

// verdictPayload mirrors the schema for decoding. ShouldAdvance is a
// pointer so an absent field is distinguishable from an explicit false.
type verdictPayload struct {
	IsCorrect     bool   `json:"is_correct"`
	Feedback      string `json:"feedback"`
	ShouldAdvance *bool  `json:"should_advance"`
}
