// Package orchestrator runs the game loop: one phase at a time, every
// power's agent is asked for orders and press, submissions are measured
// against the engine's legality check, the engine advances, and aggregate
// statistics go out to telemetry. A single participant's completion failure
// degrades that participant's turn to a no-op; configuration errors abort
// the run.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/agents"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/events"
	"github.com/MikeDean2367/welfare-diplomacy/pkg/export"
)

// Config are the session-scoped run parameters.
type Config struct {
	// RunID keys telemetry and the exported game file. Generated when
	// empty.
	RunID string
	// FinalYear is the last full game year. The game is force-finished
	// once a processed phase's year exceeds it.
	FinalYear int
	// MaxMessageRounds is passed through to agents for prompt content.
	MaxMessageRounds int

	Rules diplomacy.Rules

	// DropIllegalOrders filters out orders the engine judges illegal
	// before submission. Off by default: illegal orders are counted and
	// submitted as-is, the engine no-ops them.
	DropIllegalOrders bool

	// Parallel gathers agent responses concurrently within a phase.
	// Responses are read-only against shared game state; submission and
	// phase advancement stay serialized.
	Parallel bool
}

// Orchestrator drives one game to completion. It is the sole writer of
// game state.
type Orchestrator struct {
	game      diplomacy.Game
	agents    map[string]agents.Agent
	cfg       Config
	sink      events.Sink
	persister export.Persister
}

type Option func(*Orchestrator)

// WithSink sets the telemetry sink. Defaults to dropping events.
func WithSink(sink events.Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithPersister sets the saved-game persister invoked at termination.
func WithPersister(p export.Persister) Option {
	return func(o *Orchestrator) {
		o.persister = p
	}
}

// New builds an orchestrator over a game and one agent per power. Agent
// instances are session-scoped and reused every phase.
func New(game diplomacy.Game, agentsByPower map[string]agents.Agent, cfg Config, options ...Option) (*Orchestrator, error) {
	for _, power := range game.Powers() {
		if _, ok := agentsByPower[power]; !ok {
			return nil, errors.Errorf("no agent configured for power %s", power)
		}
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.FinalYear == 0 {
		cfg.FinalYear = 1910
	}
	if cfg.MaxMessageRounds == 0 {
		cfg.MaxMessageRounds = 1
	}

	o := &Orchestrator{
		game:   game,
		agents: agentsByPower,
		cfg:    cfg,
		sink:   events.NullSink{},
	}
	for _, opt := range options {
		opt(o)
	}
	return o, nil
}

// Run loops phases until the engine reports completion or the configured
// final year is exceeded, then hands the game history to the persister.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Info().
		Str("run_id", o.cfg.RunID).
		Int("final_year", o.cfg.FinalYear).
		Bool("parallel", o.cfg.Parallel).
		Msg("starting game")

	lastPhase := ""
	forced := false
	for !o.game.IsDone() {
		if err := ctx.Err(); err != nil {
			return err
		}
		phase, phaseForced, err := o.runPhase(ctx)
		if err != nil {
			return err
		}
		lastPhase = phase
		forced = forced || phaseForced
	}

	o.publish(&events.GameEnd{
		RunID:      o.cfg.RunID,
		FinalPhase: lastPhase,
		Forced:     forced,
		Standings:  o.game.Standings(),
	})

	if o.persister != nil {
		if err := o.persister.SaveGame(o.game.History()); err != nil {
			return errors.Wrap(err, "exporting game history")
		}
	}
	return nil
}

// phaseTally accumulates the per-phase aggregates.
type phaseTally struct {
	totalOrders   int
	validOrders   int
	sumValidRatio float64
	messagesSent  int
	sumTimeSec    float64
}

func (o *Orchestrator) runPhase(ctx context.Context) (string, bool, error) {
	phase := o.game.CurrentPhase()
	log.Info().Str("phase", phase).Msg("beginning phase")

	// Computed once per phase, shared read-only across all agents.
	legalOrders := o.game.LegalOrders()
	powers := o.game.Powers()

	responses, err := o.gatherResponses(ctx, powers, legalOrders)
	if err != nil {
		return "", false, err
	}

	tally := phaseTally{}
	for i, power := range powers {
		resp := responses[i]
		if resp == nil {
			// Degraded turn: zero orders, zero messages.
			if err := o.game.SetOrders(power, nil); err != nil {
				return "", false, errors.Wrapf(err, "clearing orders for %s", power)
			}
			continue
		}
		if err := o.submitResponse(power, resp, &tally); err != nil {
			return "", false, err
		}
	}

	if err := o.game.ProcessPhase(); err != nil {
		return "", false, errors.Wrapf(err, "processing phase %s", phase)
	}

	forced := false
	if !o.game.IsDone() && diplomacy.GameYear(phase) > o.cfg.FinalYear {
		if err := o.game.ForceFinish(); err != nil {
			return "", false, errors.Wrap(err, "force-finishing game")
		}
		forced = true
		log.Info().Str("phase", phase).Int("final_year", o.cfg.FinalYear).Msg("final year exceeded, finishing game")
	}

	o.publish(o.buildStats(phase, powers, tally))
	o.logStandings(phase)

	return phase, forced, nil
}

// gatherResponses invokes every power's agent. A *CompletionError degrades
// that power's slot to nil; any other error aborts.
func (o *Orchestrator) gatherResponses(ctx context.Context, powers []string, legalOrders map[string][]string) ([]*agents.AgentResponse, error) {
	responses := make([]*agents.AgentResponse, len(powers))

	respond := func(ctx context.Context, i int, power string) error {
		gc := &agents.GameContext{
			Power:            power,
			Game:             o.game,
			LegalOrders:      legalOrders,
			MessageRound:     1,
			MaxMessageRounds: o.cfg.MaxMessageRounds,
			FinalYear:        o.cfg.FinalYear,
			Rules:            o.cfg.Rules,
		}
		resp, err := o.agents[power].Respond(ctx, gc)
		if err != nil {
			if agents.IsCompletionError(err) {
				log.Warn().Err(err).Str("power", power).Msg("agent completion failed, degrading turn")
				return nil
			}
			return errors.Wrapf(err, "agent for %s", power)
		}
		log.Info().
			Str("power", power).
			Str("model", resp.ModelName).
			Float64("completion_time_sec", resp.CompletionTimeSec).
			Int("num_orders", len(resp.Orders)).
			Int("num_messages", len(resp.Messages)).
			Msg("agent responded")
		responses[i] = resp
		return nil
	}

	if !o.cfg.Parallel {
		for i, power := range powers {
			if err := respond(ctx, i, power); err != nil {
				return nil, err
			}
		}
		return responses, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, power := range powers {
		i, power := i, power
		g.Go(func() error {
			return respond(gctx, i, power)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// submitResponse measures legality, submits orders and messages, and feeds
// the tally.
func (o *Orchestrator) submitResponse(power string, resp *agents.AgentResponse, tally *phaseTally) error {
	numValid := 0
	for _, order := range resp.Orders {
		if o.game.ValidOrder(power, order) {
			numValid++
		}
	}
	tally.totalOrders += len(resp.Orders)
	tally.validOrders += numValid
	if len(resp.Orders) > 0 {
		tally.sumValidRatio += float64(numValid) / float64(len(resp.Orders))
	}
	log.Info().
		Str("power", power).
		Int("valid", numValid).
		Int("total", len(resp.Orders)).
		Msg("order legality")

	orders := resp.Orders
	if o.cfg.DropIllegalOrders {
		kept := make([]string, 0, len(orders))
		for _, order := range orders {
			if o.game.ValidOrder(power, order) {
				kept = append(kept, order)
			}
		}
		orders = kept
	}
	if err := o.game.SetOrders(power, orders); err != nil {
		return errors.Wrapf(err, "setting orders for %s", power)
	}

	recipients := make([]string, 0, len(resp.Messages))
	for recipient := range resp.Messages {
		recipients = append(recipients, recipient)
	}
	sort.Strings(recipients)
	for _, recipient := range recipients {
		msg := diplomacy.Message{
			Sender:    power,
			Recipient: recipient,
			Content:   resp.Messages[recipient],
			Phase:     o.game.CurrentPhase(),
		}
		if err := o.game.AddMessage(msg); err != nil {
			return errors.Wrapf(err, "sending message from %s to %s", power, recipient)
		}
		tally.messagesSent++
	}

	tally.sumTimeSec += resp.CompletionTimeSec
	return nil
}

func (o *Orchestrator) buildStats(phase string, powers []string, tally phaseTally) *events.PhaseStats {
	numPowers := float64(len(powers))
	stats := &events.PhaseStats{
		Phase:                phase,
		FractionalYear:       diplomacy.FractionalYear(phase),
		TotalOrders:          tally.totalOrders,
		ValidOrders:          tally.validOrders,
		MessagesSent:         tally.messagesSent,
		MessagesPerPower:     float64(tally.messagesSent) / numPowers,
		CompletionTimeAvgSec: tally.sumTimeSec / numPowers,
		Standings:            o.game.Standings(),
		Board:                o.game.Render(),
	}
	if tally.totalOrders > 0 {
		stats.ValidRatioTotal = float64(tally.validOrders) / float64(tally.totalOrders)
	}
	stats.ValidRatioAvg = tally.sumValidRatio / numPowers
	return stats
}

// publish is fire-and-forget: telemetry failures are logged, never fatal.
func (o *Orchestrator) publish(event events.Event) {
	if err := o.sink.PublishEvent(event); err != nil {
		log.Warn().Err(err).Str("event_type", event.Type()).Msg("telemetry publish failed")
	}
}

func (o *Orchestrator) logStandings(phase string) {
	parts := make([]string, 0, 7)
	for _, s := range o.game.Standings() {
		parts = append(parts, fmt.Sprintf("%s: %d/%d/%d", s.Abbrev, s.Centers, s.Units, s.WelfarePoints))
	}
	log.Info().Str("phase", phase).Str("centers_units_welfare", strings.Join(parts, " ")).Msg("standings")
}
