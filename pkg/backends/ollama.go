package backends

import (
	"context"
	"time"

	"github.com/jmorganca/ollama/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// OllamaBackend runs completions against a local ollama server.
type OllamaBackend struct {
	client    *api.Client
	modelName string
	cfg       config
}

// NewOllamaBackend builds a backend for a locally served model. The server
// address comes from the OLLAMA_HOST environment, like the ollama CLI.
func NewOllamaBackend(modelName string, options ...Option) (*OllamaBackend, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, errors.Wrap(err, "creating ollama client")
	}
	return &OllamaBackend{
		client:    client,
		modelName: modelName,
		cfg:       newConfig(options...),
	}, nil
}

func (b *OllamaBackend) ModelName() string {
	return b.modelName
}

func (b *OllamaBackend) Complete(ctx context.Context, systemPrompt string, userPrompt string) (*Completion, error) {
	messages := []api.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	if b.cfg.preface != "" {
		messages = append(messages, api.Message{Role: "assistant", Content: b.cfg.preface})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    b.modelName,
		Messages: messages,
		Stream:   &stream,
		Format:   "json",
		Options: map[string]interface{}{
			"temperature": b.cfg.temperature,
			"top_p":       b.cfg.topP,
		},
	}

	var text string
	var promptTokens, completionTokens int

	start := time.Now()
	err := b.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		text += resp.Message.Content
		if resp.Done {
			promptTokens = resp.PromptEvalCount
			completionTokens = resp.EvalCount
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "ollama chat completion for %s", b.modelName)
	}
	duration := time.Since(start)

	log.Debug().
		Str("model", b.modelName).
		Int("prompt_tokens", promptTokens).
		Int("completion_tokens", completionTokens).
		Dur("duration", duration).
		Msg("ollama completion finished")

	return &Completion{
		Text:             text,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Duration:         duration,
	}, nil
}

var _ Backend = (*OllamaBackend)(nil)
