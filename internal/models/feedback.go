package models

// PromptFeedback is the structured result extracted from a model's free-text
// analysis of a learner's prompt. Extraction is best-effort; absent sections
// are filled with defaults by the parser, so every field is always populated.
type PromptFeedback struct {
	Score             int      `json:"score"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`
	RewriteSuggestion string   `json:"rewrite_suggestion"`
}
