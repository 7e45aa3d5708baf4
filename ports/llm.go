package ports

import "context"

// UsageData represents raw usage data from LLM provider APIs
type UsageData struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
}

// LLMResponse is the raw model output plus its usage report.
type LLMResponse struct {
	Content string
	Usage   *UsageData
}

// LLMClient is the language-model collaborator. The pipeline only ever needs
// one completion per run; determinism knobs (temperature, seed) live in the
// adapter configuration.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (*LLMResponse, error)
}
