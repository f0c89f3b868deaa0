// Package events carries the harness's telemetry: per-phase aggregate
// statistics and the end-of-game record. Delivery is fire-and-forget; the
// orchestrator logs sink failures and moves on.
package events

import (
	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
)

const (
	EventTypePhaseStats = "phase_stats"
	EventTypeGameEnd    = "game_end"
)

// Event is anything publishable to a telemetry sink.
type Event interface {
	Type() string
}

// PhaseStats is the aggregate record of one processed phase. It is rebuilt
// every phase and never persisted beyond telemetry.
type PhaseStats struct {
	Phase          string  `json:"phase"`
	FractionalYear float64 `json:"year_fractional"`

	TotalOrders int `json:"orders_total"`
	ValidOrders int `json:"orders_valid"`
	// ValidRatioTotal is valid orders over total orders across all powers.
	ValidRatioTotal float64 `json:"orders_valid_ratio_total"`
	// ValidRatioAvg is the mean of the per-power valid-order ratios.
	ValidRatioAvg float64 `json:"orders_valid_ratio_avg"`

	MessagesSent     int     `json:"messages_total"`
	MessagesPerPower float64 `json:"messages_avg"`

	CompletionTimeAvgSec float64 `json:"completion_time_sec_avg"`

	Standings []diplomacy.PowerStanding `json:"standings"`
	// Board is the rendered board snapshot for dashboards.
	Board string `json:"board,omitempty"`
}

func (*PhaseStats) Type() string { return EventTypePhaseStats }

// GameEnd is published once, after natural or forced termination.
type GameEnd struct {
	RunID      string                    `json:"run_id"`
	FinalPhase string                    `json:"final_phase"`
	Forced     bool                      `json:"forced"`
	Standings  []diplomacy.PowerStanding `json:"standings"`
}

func (*GameEnd) Type() string { return EventTypeGameEnd }

// Sink is a destination for telemetry events.
type Sink interface {
	PublishEvent(event Event) error
}

// NullSink drops every event.
type NullSink struct{}

func (NullSink) PublishEvent(Event) error { return nil }

var _ Sink = NullSink{}
