// Package agents contains the units that turn game state into orders and
// press. Every agent implements the same single-method contract; the
// API-backed variant additionally runs a validation pipeline that repairs a
// raw model completion into an AgentResponse.
package agents

import (
	"context"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/prompts"
)

// GameContext is the read-only, turn-scoped view an agent responds to. It
// is owned by the orchestrator; agents must not mutate game state through
// it.
type GameContext struct {
	// Power is the participant this agent is playing.
	Power string
	// Game is a handle to live game state, read-only to the agent.
	Game diplomacy.Game
	// LegalOrders maps location to the engine's legal order strings for
	// the current phase, shared across all agents this phase.
	LegalOrders map[string][]string

	MessageRound     int
	MaxMessageRounds int
	FinalYear        int

	Rules diplomacy.Rules
}

// Agent produces one AgentResponse per turn. Respond returns a
// *CompletionError when the produced content cannot be reduced to a valid
// response; any other error indicates a broken setup and is fatal to the
// run.
type Agent interface {
	Respond(ctx context.Context, gc *GameContext) (*AgentResponse, error)
}

// promptParams flattens a GameContext into the snapshot the prompt
// templates render from.
func promptParams(gc *GameContext) prompts.Params {
	return prompts.Params{
		Power:            gc.Power,
		Phase:            gc.Game.CurrentPhase(),
		LegalOrders:      gc.LegalOrders,
		MessageRound:     gc.MessageRound,
		MaxMessageRounds: gc.MaxMessageRounds,
		FinalYear:        gc.FinalYear,
		Rules:            gc.Rules,
	}
}
