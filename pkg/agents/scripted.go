package agents

import (
	"context"

	"github.com/pkg/errors"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/policy"
)

// PolicyModelName identifies the rules-only policy baseline.
const PolicyModelName = "policy"

// ScriptedPolicyAgent plays through an injected policy: it maps its power
// to a fixed slot index, builds an observation with the candidate actions
// per unit, and translates the chosen actions back into engine orders. Any
// mismatch between units, actions and translated orders is a
// translation-layer bug and therefore fatal. It has no messaging
// capability.
type ScriptedPolicyAgent struct {
	policy     policy.Policy
	translator policy.VocabTranslator
}

// NewScriptedPolicyAgent builds the rules-only baseline around an injected
// policy and its action vocabulary.
func NewScriptedPolicyAgent(p policy.Policy, translator policy.VocabTranslator) *ScriptedPolicyAgent {
	return &ScriptedPolicyAgent{
		policy:     p,
		translator: translator,
	}
}

func (a *ScriptedPolicyAgent) Respond(ctx context.Context, gc *GameContext) (*AgentResponse, error) {
	slot, err := policy.SlotForPower(gc.Power)
	if err != nil {
		return nil, err
	}

	units := gc.Game.OrderableLocations(gc.Power)
	obs := &policy.Observation{
		Phase: gc.Game.CurrentPhase(),
		Slot:  slot,
		Units: units,
		Legal: map[string][]policy.Action{},
	}
	for _, loc := range units {
		obs.Legal[loc] = a.translator.ActionsForOrders(gc.LegalOrders[loc])
	}

	actions, err := a.policy.ChooseActions(obs)
	if err != nil {
		return nil, errors.Wrapf(err, "policy failed for %s in %s", gc.Power, obs.Phase)
	}
	if len(actions) != len(units) {
		return nil, errors.Errorf(
			"policy returned %d actions for %d units of %s in %s",
			len(actions), len(units), gc.Power, obs.Phase)
	}

	orders := make([]string, 0, len(actions))
	for _, action := range actions {
		order, ok := a.translator.OrderForAction(action)
		if !ok {
			return nil, errors.Errorf(
				"action %d of %s in %s has no order translation",
				action, gc.Power, obs.Phase)
		}
		orders = append(orders, order)
	}
	if len(orders) != len(actions) {
		return nil, errors.Errorf(
			"translated %d orders from %d actions for %s in %s",
			len(orders), len(actions), gc.Power, obs.Phase)
	}

	return &AgentResponse{
		ModelName: PolicyModelName,
		Reasoning: "Orders chosen by injected policy.",
		Orders:    orders,
		Messages:  map[string]string{},
	}, nil
}

var _ Agent = (*ScriptedPolicyAgent)(nil)
