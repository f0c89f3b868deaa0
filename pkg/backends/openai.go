package backends

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend talks to the OpenAI chat completion API (or any compatible
// endpoint via WithBaseURL).
type OpenAIBackend struct {
	client    *go_openai.Client
	modelName string
	cfg       config
}

// NewOpenAIBackend builds a backend for the given chat model.
func NewOpenAIBackend(modelName string, apiKey string, options ...Option) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, errors.New("no OpenAI API key provided")
	}
	cfg := newConfig(options...)
	clientConfig := go_openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientConfig.BaseURL = cfg.baseURL
	}
	return &OpenAIBackend{
		client:    go_openai.NewClientWithConfig(clientConfig),
		modelName: modelName,
		cfg:       cfg,
	}, nil
}

func (b *OpenAIBackend) ModelName() string {
	return b.modelName
}

func (b *OpenAIBackend) Complete(ctx context.Context, systemPrompt string, userPrompt string) (*Completion, error) {
	messages := []go_openai.ChatCompletionMessage{
		{Role: go_openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: go_openai.ChatMessageRoleUser, Content: userPrompt},
	}
	if b.cfg.preface != "" {
		messages = append(messages, go_openai.ChatCompletionMessage{
			Role:    go_openai.ChatMessageRoleAssistant,
			Content: b.cfg.preface,
		})
	}

	req := go_openai.ChatCompletionRequest{
		Model:       b.modelName,
		Messages:    messages,
		Temperature: float32(b.cfg.temperature),
		TopP:        float32(b.cfg.topP),
	}
	if b.cfg.maxTokens > 0 {
		req.MaxTokens = b.cfg.maxTokens
	}

	start := time.Now()
	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "openai chat completion for %s", b.modelName)
	}
	duration := time.Since(start)

	if len(resp.Choices) == 0 {
		return nil, errors.Errorf("openai returned no choices for %s", b.modelName)
	}

	log.Debug().
		Str("model", b.modelName).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Dur("duration", duration).
		Msg("openai completion finished")

	return &Completion{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Duration:         duration,
	}, nil
}

var _ Backend = (*OpenAIBackend)(nil)
