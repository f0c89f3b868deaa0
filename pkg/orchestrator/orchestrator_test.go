package orchestrator

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/agents"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy/scripted"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/events"
)

// stubAgent returns fixed orders and messages, or a fixed error.
type stubAgent struct {
	orders   []string
	messages map[string]string
	err      error
}

func (a *stubAgent) Respond(ctx context.Context, gc *agents.GameContext) (*agents.AgentResponse, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &agents.AgentResponse{
		ModelName: "stub",
		Reasoning: "scripted test orders",
		Orders:    a.orders,
		Messages:  a.messages,
	}, nil
}

// recordingSink captures every published event.
type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (s *recordingSink) PublishEvent(e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) phaseStats() []*events.PhaseStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ret []*events.PhaseStats
	for _, e := range s.events {
		if ps, ok := e.(*events.PhaseStats); ok {
			ret = append(ret, ps)
		}
	}
	return ret
}

func (s *recordingSink) gameEnd() *events.GameEnd {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if ge, ok := e.(*events.GameEnd); ok {
			return ge
		}
	}
	return nil
}

// recordingPersister captures the exported history.
type recordingPersister struct {
	history *diplomacy.GameHistory
}

func (p *recordingPersister) SaveGame(h *diplomacy.GameHistory) error {
	p.history = h
	return nil
}

func twoPowerGame() *scripted.Game {
	return scripted.NewGame(scripted.WithUnits(map[string][]string{
		"FRANCE":  {"PAR"},
		"GERMANY": {"MUN"},
	}))
}

func TestCompletionFailureDegradesOneTurnOnly(t *testing.T) {
	game := twoPowerGame()
	agentsByPower := map[string]agents.Agent{
		"FRANCE":  &stubAgent{err: agents.NewCompletionError(errors.New("mangled JSON"), "raw")},
		"GERMANY": &stubAgent{orders: []string{"A MUN H"}},
	}

	o, err := New(game, agentsByPower, Config{FinalYear: 1910})
	require.NoError(t, err)

	phase, forced, err := o.runPhase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "S1901M", phase)
	assert.False(t, forced)

	// The phase advanced despite France's failure.
	assert.Equal(t, "F1901M", game.CurrentPhase())

	history := game.History()
	require.Len(t, history.Phases, 1)
	assert.Empty(t, history.Phases[0].Orders["FRANCE"])
	assert.Equal(t, []string{"A MUN H"}, history.Phases[0].Orders["GERMANY"])
}

func TestConfigurationErrorAbortsRun(t *testing.T) {
	game := twoPowerGame()
	agentsByPower := map[string]agents.Agent{
		"FRANCE":  &stubAgent{orders: []string{"A PAR H"}},
		"GERMANY": &stubAgent{err: errors.New("scripted order not legal")},
	}

	o, err := New(game, agentsByPower, Config{FinalYear: 1910})
	require.NoError(t, err)

	err = o.Run(context.Background())
	require.Error(t, err)
	assert.False(t, agents.IsCompletionError(err))
}

func TestMissingAgentIsRejected(t *testing.T) {
	game := twoPowerGame()
	_, err := New(game, map[string]agents.Agent{"FRANCE": &stubAgent{}}, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GERMANY")
}

func TestIllegalOrdersAreCountedButSubmitted(t *testing.T) {
	game := twoPowerGame()
	sink := &recordingSink{}
	agentsByPower := map[string]agents.Agent{
		"FRANCE":  &stubAgent{orders: []string{"A PAR H", "A XXX YYY"}},
		"GERMANY": &stubAgent{orders: []string{"A MUN TYR"}},
	}

	o, err := New(game, agentsByPower, Config{FinalYear: 1910}, WithSink(sink))
	require.NoError(t, err)

	_, _, err = o.runPhase(context.Background())
	require.NoError(t, err)

	stats := sink.phaseStats()
	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].TotalOrders)
	assert.Equal(t, 2, stats[0].ValidOrders)
	assert.InDelta(t, 2.0/3.0, stats[0].ValidRatioTotal, 1e-9)
	assert.InDelta(t, (0.5+1.0)/2.0, stats[0].ValidRatioAvg, 1e-9)

	// The illegal order went through to the engine untouched.
	history := game.History()
	assert.Equal(t, []string{"A PAR H", "A XXX YYY"}, history.Phases[0].Orders["FRANCE"])
}

func TestDropIllegalOrdersFilters(t *testing.T) {
	game := twoPowerGame()
	agentsByPower := map[string]agents.Agent{
		"FRANCE":  &stubAgent{orders: []string{"A PAR H", "A XXX YYY"}},
		"GERMANY": &stubAgent{orders: []string{"A MUN H"}},
	}

	o, err := New(game, agentsByPower, Config{FinalYear: 1910, DropIllegalOrders: true})
	require.NoError(t, err)

	_, _, err = o.runPhase(context.Background())
	require.NoError(t, err)

	history := game.History()
	assert.Equal(t, []string{"A PAR H"}, history.Phases[0].Orders["FRANCE"])
}

func TestMessagesAreDeliveredWithPhase(t *testing.T) {
	game := twoPowerGame()
	agentsByPower := map[string]agents.Agent{
		"FRANCE": &stubAgent{
			orders:   []string{"A PAR H"},
			messages: map[string]string{"GERMANY": "truce?", diplomacy.Broadcast: "peace"},
		},
		"GERMANY": &stubAgent{orders: []string{"A MUN H"}},
	}

	o, err := New(game, agentsByPower, Config{FinalYear: 1910})
	require.NoError(t, err)

	_, _, err = o.runPhase(context.Background())
	require.NoError(t, err)

	history := game.History()
	require.Len(t, history.Phases, 1)
	msgs := history.Phases[0].Messages
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, "FRANCE", m.Sender)
		assert.Equal(t, "S1901M", m.Phase)
	}
}

func randomAgents(t *testing.T, game *scripted.Game, seed int64) map[string]agents.Agent {
	t.Helper()
	byPower := map[string]agents.Agent{}
	for i, power := range game.Powers() {
		// One source per agent keeps parallel gathering race-free.
		rng := rand.New(rand.NewSource(seed + int64(i)))
		byPower[power] = agents.NewRandomAgent(rng,
			agents.WithFailureInjection(false),
			agents.WithSyntheticDelay(0))
	}
	return byPower
}

func TestEndToEndRandomGameTerminates(t *testing.T) {
	game := scripted.NewGame()
	sink := &recordingSink{}
	persister := &recordingPersister{}

	o, err := New(game, randomAgents(t, game, 17), Config{
		RunID:     "test-run",
		FinalYear: 1901,
		Rules:     diplomacy.Rules{Welfare: true},
	}, WithSink(sink), WithPersister(persister))
	require.NoError(t, err)

	require.NoError(t, o.Run(context.Background()))
	assert.True(t, game.IsDone())

	// S1901M, F1901M, W1901A, then S1902M exceeds the final year.
	require.NotNil(t, persister.history)
	require.Len(t, persister.history.Phases, 4)
	assert.Equal(t, "S1902M", persister.history.Phases[3].Name)

	end := sink.gameEnd()
	require.NotNil(t, end)
	assert.Equal(t, "test-run", end.RunID)
	assert.True(t, end.Forced)
	assert.Equal(t, "S1902M", end.FinalPhase)

	stats := sink.phaseStats()
	require.Len(t, stats, 4)
	assert.Greater(t, stats[0].TotalOrders, 0)
	assert.InDelta(t, 1901.3, stats[0].FractionalYear, 1e-9)
}

func TestEndToEndParallelMatchesConfig(t *testing.T) {
	game := scripted.NewGame()
	persister := &recordingPersister{}

	o, err := New(game, randomAgents(t, game, 4), Config{
		FinalYear: 1901,
		Parallel:  true,
		Rules:     diplomacy.Rules{Welfare: true},
	}, WithPersister(persister))
	require.NoError(t, err)

	require.NoError(t, o.Run(context.Background()))
	assert.True(t, game.IsDone())
	require.NotNil(t, persister.history)
	assert.Len(t, persister.history.Phases, 4)
}

func TestRunRespectsContextCancellation(t *testing.T) {
	game := scripted.NewGame()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o, err := New(game, randomAgents(t, game, 1), Config{FinalYear: 1901})
	require.NoError(t, err)

	err = o.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
