// Package policy defines the injected decision object consumed by the
// rules-only baseline agent. Policies see a flattened observation of the
// board and answer with one opaque action per unit slot; a Translator maps
// those actions back into the engine's order grammar.
package policy

import (
	"sort"

	"github.com/pkg/errors"
)

// Action is an opaque policy-level action identifier.
type Action int64

// Observation is the board view handed to a policy: the acting power's slot
// index, its unit locations in a stable order, and the candidate actions per
// location.
type Observation struct {
	Phase string
	Slot  int
	Units []string
	Legal map[string][]Action
}

// Policy chooses one action per unit slot. An implementation must return
// exactly len(obs.Units) actions.
type Policy interface {
	ChooseActions(obs *Observation) ([]Action, error)
}

// Translator maps a policy action into the engine's order grammar. The
// second return is false for actions outside the vocabulary.
type Translator interface {
	OrderForAction(a Action) (string, bool)
}

// VocabTranslator is a fixed action -> order vocabulary.
type VocabTranslator map[Action]string

func (v VocabTranslator) OrderForAction(a Action) (string, bool) {
	order, ok := v[a]
	return order, ok
}

// ActionsForOrders inverts the vocabulary for a set of legal order strings,
// yielding the candidate actions for one location in a deterministic order.
func (v VocabTranslator) ActionsForOrders(legal []string) []Action {
	var actions []Action
	for a, order := range v {
		for _, l := range legal {
			if l == order {
				actions = append(actions, a)
				break
			}
		}
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

var _ Translator = VocabTranslator(nil)

// slotOrder is the canonical power ordering used to assign policy slots.
var slotOrder = []string{
	"AUSTRIA",
	"ENGLAND",
	"FRANCE",
	"GERMANY",
	"ITALY",
	"RUSSIA",
	"TURKEY",
}

// SlotForPower maps a power to its fixed policy slot index.
func SlotForPower(power string) (int, error) {
	for i, p := range slotOrder {
		if p == power {
			return i, nil
		}
	}
	return 0, errors.Errorf("power %q has no policy slot", power)
}

// FirstActionPolicy always picks the first candidate action for every unit.
// It is the simplest deterministic baseline and the reference implementation
// for the Policy contract.
type FirstActionPolicy struct{}

func (FirstActionPolicy) ChooseActions(obs *Observation) ([]Action, error) {
	actions := make([]Action, 0, len(obs.Units))
	for _, loc := range obs.Units {
		candidates := obs.Legal[loc]
		if len(candidates) == 0 {
			return nil, errors.Errorf("no candidate actions for %s in %s", loc, obs.Phase)
		}
		actions = append(actions, candidates[0])
	}
	return actions, nil
}

var _ Policy = FirstActionPolicy{}
