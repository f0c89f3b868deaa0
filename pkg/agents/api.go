package agents

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/backends"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/prompts"
)

// APIAgent prompts a model backend and validates the completion into an
// AgentResponse. Parsing and semantic failures surface as *CompletionError
// so the orchestrator can degrade the turn; backend transport failures
// propagate as-is, since retry policy lives in the backend collaborator.
type APIAgent struct {
	backend backends.Backend
	preface string
}

type APIOption func(*APIAgent)

// WithPreface prepends a fixed string to every completion before
// validation. Use together with backends.WithCompletionPreface so the model
// continues from the same text.
func WithPreface(preface string) APIOption {
	return func(a *APIAgent) {
		a.preface = preface
	}
}

// NewAPIAgent builds an API-backed agent around a backend collaborator. The
// backend connection is session-scoped and reused every turn.
func NewAPIAgent(backend backends.Backend, options ...APIOption) *APIAgent {
	a := &APIAgent{backend: backend}
	for _, o := range options {
		o(a)
	}
	return a
}

func (a *APIAgent) Respond(ctx context.Context, gc *GameContext) (*AgentResponse, error) {
	params := promptParams(gc)
	systemPrompt := prompts.SystemPrompt(params)
	userPrompt := prompts.UserPrompt(params)

	completion, err := a.backend.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, errors.Wrapf(err, "backend completion for %s", gc.Power)
	}

	text := completion.Text
	if a.preface != "" {
		text = a.preface + text
	}

	resp, err := ValidateResponse(text, gc.Rules)
	if err != nil {
		log.Warn().
			Err(err).
			Str("power", gc.Power).
			Str("model", a.backend.ModelName()).
			Msg("model response failed validation")
		return nil, err
	}

	resp.ModelName = a.backend.ModelName()
	resp.SystemPrompt = systemPrompt
	resp.UserPrompt = userPrompt
	resp.PromptTokens = completion.PromptTokens
	resp.CompletionTokens = completion.CompletionTokens
	resp.TotalTokens = completion.TotalTokens
	resp.CompletionTimeSec = completion.Duration.Seconds()
	return resp, nil
}

var _ Agent = (*APIAgent)(nil)
