package agents

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/prompts"
)

// RandomModelName identifies the random baseline in logs and responses.
const RandomModelName = "random"

const (
	// illegalProbeOrder is appended with illegalOrderRate probability to
	// exercise the orchestrator's legality measurement.
	illegalProbeOrder = "A XXX YYY"

	illegalOrderRate      = 0.10
	completionFailureRate = 0.05

	defaultSyntheticDelay = 300 * time.Millisecond
)

// RandomAgent draws a uniform legal order for every orderable location and
// sends one templated message to a random recipient. With small fixed
// probabilities it appends a deliberately illegal order or fails the whole
// turn, reproducing realistic model failure modes without a live backend.
type RandomAgent struct {
	rng            *rand.Rand
	injectFailures bool
	delay          time.Duration
}

type RandomOption func(*RandomAgent)

// WithFailureInjection toggles the illegal-order and completion-failure
// injection. On by default.
func WithFailureInjection(enabled bool) RandomOption {
	return func(a *RandomAgent) {
		a.injectFailures = enabled
	}
}

// WithSyntheticDelay overrides the fixed delay reported as completion time.
func WithSyntheticDelay(d time.Duration) RandomOption {
	return func(a *RandomAgent) {
		a.delay = d
	}
}

// NewRandomAgent builds a random baseline drawing from the given source.
// The source is the session-scoped seeded generator; sharing it across
// agents keeps a run reproducible.
func NewRandomAgent(rng *rand.Rand, options ...RandomOption) *RandomAgent {
	a := &RandomAgent{
		rng:            rng,
		injectFailures: true,
		delay:          defaultSyntheticDelay,
	}
	for _, o := range options {
		o(a)
	}
	return a
}

func (a *RandomAgent) Respond(ctx context.Context, gc *GameContext) (*AgentResponse, error) {
	if a.injectFailures && a.rng.Float64() < completionFailureRate {
		return nil, NewCompletionError(errors.New("injected completion failure"), "")
	}

	phaseLabel := gc.Game.CurrentPhase()
	phase, err := diplomacy.ParsePhase(phaseLabel)
	adjustments := err == nil && phase.Type == 'A'

	var orders []string
	for _, loc := range gc.Game.OrderableLocations(gc.Power) {
		legal := gc.LegalOrders[loc]
		if len(legal) == 0 {
			continue
		}
		// Sort for determinism under a fixed seed.
		sorted := append([]string(nil), legal...)
		sort.Strings(sorted)

		// Disbandable unit in a welfare adjustment phase: coin-flip
		// between waiving and the first disband, so the abstain path is
		// exercised without sampling the full order set.
		if adjustments && gc.Rules.Welfare && strings.HasSuffix(sorted[0], " D") {
			if a.rng.Intn(2) == 0 {
				orders = append(orders, diplomacy.OrderWaive)
			} else {
				orders = append(orders, sorted[0])
			}
			continue
		}
		orders = append(orders, sorted[a.rng.Intn(len(sorted))])
	}

	if a.injectFailures && a.rng.Float64() < illegalOrderRate {
		orders = append(orders, illegalProbeOrder)
	}

	params := promptParams(gc)
	systemPrompt := prompts.SystemPrompt(params)
	userPrompt := prompts.UserPrompt(params)

	messages := map[string]string{}
	if !gc.Rules.NoPress {
		recipients := []string{diplomacy.Broadcast}
		for _, p := range gc.Game.Powers() {
			if p != gc.Power {
				recipients = append(recipients, p)
			}
		}
		recipient := recipients[a.rng.Intn(len(recipients))]
		messages[recipient] = fmt.Sprintf(
			"Hello %s! I'm %s contacting you on turn %s. Here's a random number: %d.",
			recipient, gc.Power, phaseLabel, a.rng.Intn(101))
	}

	if a.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.delay):
		}
	}

	return &AgentResponse{
		ModelName:         RandomModelName,
		Reasoning:         "Randomly generated orders and messages.",
		Orders:            orders,
		Messages:          messages,
		SystemPrompt:      systemPrompt,
		UserPrompt:        userPrompt,
		CompletionTimeSec: a.delay.Seconds(),
	}, nil
}

var _ Agent = (*RandomAgent)(nil)
