package agents

import (
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/backends"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/policy"
)

// ForceRetreatScript contrives a retreat phase on the standard map: Germany
// moves to Tyrolia in spring, then Austria and Italy force it out in fall.
// Ownership filtering in ManualAgent makes the one script serve all powers.
var ForceRetreatScript = OrderScript{
	"S1901M": {"A MUN TYR"},
	"F1901M": {"A VIE S A VEN TYR", "A VEN TYR"},
}

// Config carries the collaborator handles the factory may need. Only the
// fields relevant to the requested model name are consulted.
type Config struct {
	// Rand is the session-scoped seeded generator for stochastic agents.
	Rand *rand.Rand
	// ScriptPath is the manual order script file for the "manual" agent.
	ScriptPath string
	// Policy and Translator back the "policy" agent.
	Policy     policy.Policy
	Translator policy.VocabTranslator

	OpenAIAPIKey string
	BaseURL      string
	Temperature  float64
	TopP         float64
}

// NewAgent instantiates the agent corresponding to a model name: the
// baselines by their fixed names, API-backed agents by provider-specific
// model names.
func NewAgent(modelName string, cfg Config) (Agent, error) {
	name := strings.ToLower(modelName)

	switch {
	case name == "random":
		rng := cfg.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(0))
		}
		return NewRandomAgent(rng), nil

	case name == "retreats":
		return NewManualAgent(ForceRetreatScript)

	case name == "manual":
		if cfg.ScriptPath == "" {
			return nil, errors.New("manual agent requires a script path")
		}
		script, err := LoadOrderScript(cfg.ScriptPath)
		if err != nil {
			return nil, err
		}
		return NewManualAgent(script)

	case name == "policy":
		if cfg.Translator == nil {
			return nil, errors.New("policy agent requires an action vocabulary")
		}
		p := cfg.Policy
		if p == nil {
			p = policy.FirstActionPolicy{}
		}
		return NewScriptedPolicyAgent(p, cfg.Translator), nil

	case strings.HasPrefix(name, "ollama:"):
		backend, err := backends.NewOllamaBackend(
			strings.TrimPrefix(modelName, "ollama:"),
			backends.WithTemperature(cfg.Temperature),
			backends.WithTopP(cfg.TopP),
		)
		if err != nil {
			return nil, err
		}
		return NewAPIAgent(backend), nil

	case strings.Contains(name, "gpt-4") || strings.Contains(name, "gpt-3.5"):
		options := []backends.Option{
			backends.WithTemperature(cfg.Temperature),
			backends.WithTopP(cfg.TopP),
		}
		if cfg.BaseURL != "" {
			options = append(options, backends.WithBaseURL(cfg.BaseURL))
		}
		backend, err := backends.NewOpenAIBackend(modelName, cfg.OpenAIAPIKey, options...)
		if err != nil {
			return nil, err
		}
		return NewAPIAgent(backend), nil

	default:
		return nil, errors.Errorf("unknown model name: %s", modelName)
	}
}
