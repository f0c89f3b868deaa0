package agents

import (
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/prompts"
)

// ManualModelName identifies the fixed-script baseline.
const ManualModelName = "manual"

// OrderScript maps 6-character phase labels to the orders to issue in that
// phase. A single script is shared by every power; each agent only issues
// the scripted orders whose subject unit it currently owns.
type OrderScript map[string][]string

var scriptLabelRe = regexp.MustCompile(`^[SFW]\d{4}[MRA]$`)

// LoadOrderScript reads an OrderScript from a YAML file and validates its
// structure. A malformed script is a configuration error, fatal at load.
func LoadOrderScript(path string) (OrderScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading order script %s", path)
	}
	var script OrderScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, errors.Wrapf(err, "parsing order script %s", path)
	}
	if err := script.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid order script %s", path)
	}
	return script, nil
}

// Validate checks label shape and order structure: labels match
// season/year/phase-type, orders carry at least a unit type, location and
// action, and the unit type is A or F.
func (s OrderScript) Validate() error {
	for label, orders := range s {
		if !scriptLabelRe.MatchString(label) {
			return errors.Errorf("phase label %q does not match [SFW]YYYY[MRA]", label)
		}
		for _, order := range orders {
			fields := strings.Fields(order)
			if len(fields) < 3 {
				return errors.Errorf("order %q in %s has fewer than 3 tokens", order, label)
			}
			if fields[0] != "A" && fields[0] != "F" {
				return errors.Errorf("order %q in %s does not start with a unit type (A or F)", order, label)
			}
		}
	}
	return nil
}

// ManualAgent replays a fixed order script, issuing only the scripted
// orders whose subject unit its power currently owns. A scripted order the
// engine does not list as legal indicates a broken script, which is fatal
// rather than degraded. It sends no messages.
type ManualAgent struct {
	script OrderScript
	delay  time.Duration
}

type ManualOption func(*ManualAgent)

// WithManualDelay overrides the fixed delay reported as completion time.
func WithManualDelay(d time.Duration) ManualOption {
	return func(a *ManualAgent) {
		a.delay = d
	}
}

// NewManualAgent builds a fixed-script baseline from an already validated
// script.
func NewManualAgent(script OrderScript, options ...ManualOption) (*ManualAgent, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}
	a := &ManualAgent{
		script: script,
		delay:  defaultSyntheticDelay,
	}
	for _, o := range options {
		o(a)
	}
	return a, nil
}

func (a *ManualAgent) Respond(ctx context.Context, gc *GameContext) (*AgentResponse, error) {
	phaseLabel := gc.Game.CurrentPhase()

	owned := map[string]bool{}
	for _, loc := range gc.Game.OrderableLocations(gc.Power) {
		owned[loc] = true
	}

	var orders []string
	for _, order := range a.script[phaseLabel] {
		loc := strings.Fields(order)[1]
		if !owned[loc] {
			continue
		}
		if !containsOrder(gc.LegalOrders[loc], order) {
			return nil, errors.Errorf(
				"scripted order %q for %s is not legal for %s in %s",
				order, gc.Power, loc, phaseLabel)
		}
		orders = append(orders, order)
	}

	if len(orders) > 0 {
		log.Debug().
			Str("power", gc.Power).
			Str("phase", phaseLabel).
			Strs("orders", orders).
			Msg("manual agent issuing scripted orders")
	}

	params := promptParams(gc)

	if a.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.delay):
		}
	}

	return &AgentResponse{
		ModelName:         ManualModelName,
		Reasoning:         "Replaying scripted orders.",
		Orders:            orders,
		Messages:          map[string]string{},
		SystemPrompt:      prompts.SystemPrompt(params),
		UserPrompt:        prompts.UserPrompt(params),
		CompletionTimeSec: a.delay.Seconds(),
	}, nil
}

func containsOrder(legal []string, order string) bool {
	for _, l := range legal {
		if l == order {
			return true
		}
	}
	return false
}

var _ Agent = (*ManualAgent)(nil)
