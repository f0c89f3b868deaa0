// Package backends wraps model providers behind a single blocking
// completion call. A backend either returns a fully populated Completion or
// an error; it never returns a partially populated result. Retry and backoff
// policy, if any, belongs here and not in the callers.
package backends

import (
	"context"
	"time"
)

// Completion is the raw result of one model call.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Duration         time.Duration
}

// Backend is the model-provider collaborator consumed by API-backed agents.
type Backend interface {
	// ModelName identifies the underlying model for diagnostics.
	ModelName() string

	// Complete performs one blocking completion round-trip.
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (*Completion, error)
}

type config struct {
	temperature float64
	topP        float64
	maxTokens   int
	baseURL     string
	preface     string
}

// Option configures a backend at construction time.
type Option func(*config)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *config) {
		c.temperature = t
	}
}

// WithTopP sets nucleus sampling.
func WithTopP(p float64) Option {
	return func(c *config) {
		c.topP = p
	}
}

// WithMaxTokens bounds the completion length.
func WithMaxTokens(n int) Option {
	return func(c *config) {
		c.maxTokens = n
	}
}

// WithBaseURL overrides the provider endpoint, for proxies and compatible
// servers.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithCompletionPreface sends a partial assistant turn so the model
// continues from it instead of starting fresh. Callers that set a preface
// must prepend it to the returned completion text themselves.
func WithCompletionPreface(preface string) Option {
	return func(c *config) {
		c.preface = preface
	}
}

func newConfig(options ...Option) config {
	c := config{
		temperature: 0.7,
		topP:        1.0,
	}
	for _, o := range options {
		o(&c)
	}
	return c
}
