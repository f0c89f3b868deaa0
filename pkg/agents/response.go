package agents

// AgentResponse is the canonical structured result of one agent's turn:
// orders and press for the engine, plus the prompts and usage metrics kept
// for auditability. Baseline agents report zero token usage and a synthetic
// delay; for any agent reporting nonzero usage, TotalTokens is the sum of
// prompt and completion tokens.
type AgentResponse struct {
	ModelName string `json:"model_name"`
	// Reasoning is the model's free-text rationale. A placeholder when the
	// model omits it.
	Reasoning string `json:"reasoning"`
	// Orders are unit-action commands in the engine's grammar, not
	// guaranteed legal until validated.
	Orders []string `json:"orders"`
	// Messages maps canonical upper-case recipient identifiers (or the
	// broadcast identifier) to message text.
	Messages map[string]string `json:"messages"`

	SystemPrompt string `json:"system_prompt"`
	UserPrompt   string `json:"user_prompt"`

	PromptTokens      int     `json:"prompt_tokens"`
	CompletionTokens  int     `json:"completion_tokens"`
	TotalTokens       int     `json:"total_tokens"`
	CompletionTimeSec float64 `json:"completion_time_sec"`
}
